package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// The wire shapes use pointers so a missing or null field is distinguishable
// from a zero value.
type wirePoint struct {
	Period         *string  `json:"period"`
	SentimentScore *float64 `json:"sentimentScore"`
}

type wireKeyword struct {
	Text  *string  `json:"text"`
	Value *float64 `json:"value"`
}

type wireWordCloud struct {
	Praises    *[]wireKeyword `json:"praises"`
	Complaints *[]wireKeyword `json:"complaints"`
}

type wireAnalysis struct {
	SentimentTrend *[]wirePoint   `json:"sentimentTrend"`
	WordCloud      *wireWordCloud `json:"wordCloud"`
	Summary        *string        `json:"summary"`
}

// ParseAnalysis decodes a model reply into an AnalysisResult. Any deviation from the
// declared shape is a *ParseError; partial results are never returned.
func ParseAnalysis(text string) (*AnalysisResult, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, &ParseError{Reason: "empty response"}
	}

	var raw wireAnalysis
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ParseError{Field: typeErr.Field, Reason: "wrong type", Err: err}
		}
		return nil, &ParseError{Reason: "invalid JSON", Err: err}
	}

	if raw.SentimentTrend == nil {
		return nil, &ParseError{Field: "sentimentTrend", Reason: "missing"}
	}
	if raw.WordCloud == nil {
		return nil, &ParseError{Field: "wordCloud", Reason: "missing"}
	}
	if raw.Summary == nil {
		return nil, &ParseError{Field: "summary", Reason: "missing"}
	}

	trend, err := parseTrend(*raw.SentimentTrend)
	if err != nil {
		return nil, err
	}
	praises, err := parseKeywords("wordCloud.praises", raw.WordCloud.Praises)
	if err != nil {
		return nil, err
	}
	complaints, err := parseKeywords("wordCloud.complaints", raw.WordCloud.Complaints)
	if err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(*raw.Summary)
	if summary == "" {
		return nil, &ParseError{Field: "summary", Reason: "blank"}
	}

	return &AnalysisResult{
		SentimentTrend: trend,
		WordCloud: WordCloudData{
			Praises:    praises,
			Complaints: complaints,
		},
		Summary: summary,
	}, nil
}

func parseTrend(points []wirePoint) ([]SentimentPoint, error) {
	if len(points) == 0 {
		return nil, &ParseError{Field: "sentimentTrend", Reason: "no points"}
	}
	out := make([]SentimentPoint, 0, len(points))
	for i, p := range points {
		field := fmt.Sprintf("sentimentTrend[%d]", i)
		if p.Period == nil || strings.TrimSpace(*p.Period) == "" {
			return nil, &ParseError{Field: field + ".period", Reason: "missing"}
		}
		if p.SentimentScore == nil {
			return nil, &ParseError{Field: field + ".sentimentScore", Reason: "missing"}
		}
		score := *p.SentimentScore
		if math.IsNaN(score) || score < MinSentimentScore || score > MaxSentimentScore {
			return nil, &ParseError{Field: field + ".sentimentScore", Reason: fmt.Sprintf("%v outside [1,5]", score)}
		}
		out = append(out, SentimentPoint{Period: strings.TrimSpace(*p.Period), SentimentScore: score})
	}
	return out, nil
}

func parseKeywords(field string, items *[]wireKeyword) ([]KeywordItem, error) {
	if items == nil {
		return nil, &ParseError{Field: field, Reason: "missing"}
	}
	if len(*items) > MaxKeywords {
		return nil, &ParseError{Field: field, Reason: fmt.Sprintf("%d items exceeds %d", len(*items), MaxKeywords)}
	}
	out := make([]KeywordItem, 0, len(*items))
	for i, k := range *items {
		f := fmt.Sprintf("%s[%d]", field, i)
		if k.Text == nil || strings.TrimSpace(*k.Text) == "" {
			return nil, &ParseError{Field: f + ".text", Reason: "missing"}
		}
		if k.Value == nil {
			return nil, &ParseError{Field: f + ".value", Reason: "missing"}
		}
		if math.IsNaN(*k.Value) || math.IsInf(*k.Value, 0) || *k.Value < 0 {
			return nil, &ParseError{Field: f + ".value", Reason: fmt.Sprintf("%v is not a non-negative number", *k.Value)}
		}
		out = append(out, KeywordItem{Text: strings.TrimSpace(*k.Text), Value: *k.Value})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out, nil
}
