package gemini

import (
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"google.golang.org/genai"
)

func keywordListSchema(description string) *genai.Schema {
	maxItems := int64(llm.MaxKeywords)
	var minValue float64 = 0

	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		MaxItems:    &maxItems,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text": {Type: genai.TypeString},
				"value": {
					Type:        genai.TypeNumber,
					Description: llm.ValueDescription,
					Minimum:     &minValue,
				},
			},
			Required:         []string{"text", "value"},
			PropertyOrdering: []string{"text", "value"},
		},
	}
}

func analysisSchema() *genai.Schema {
	minScore := llm.MinSentimentScore
	maxScore := llm.MaxSentimentScore

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sentimentTrend": {
				Type:        genai.TypeArray,
				Description: llm.TrendDescription,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"period": {Type: genai.TypeString},
						"sentimentScore": {
							Type:        genai.TypeNumber,
							Description: llm.ScoreDescription,
							Minimum:     &minScore,
							Maximum:     &maxScore,
						},
					},
					Required:         []string{"period", "sentimentScore"},
					PropertyOrdering: []string{"period", "sentimentScore"},
				},
			},
			"wordCloud": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"praises":    keywordListSchema(llm.PraisesDescription),
					"complaints": keywordListSchema(llm.ComplaintDescription),
				},
				Required:         []string{"praises", "complaints"},
				PropertyOrdering: []string{"praises", "complaints"},
			},
			"summary": {
				Type:        genai.TypeString,
				Description: llm.SummaryDescription,
			},
		},
		Required:         []string{"sentimentTrend", "wordCloud", "summary"},
		PropertyOrdering: []string{"sentimentTrend", "wordCloud", "summary"},
	}
}
