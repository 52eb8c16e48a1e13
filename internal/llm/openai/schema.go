package openai

import (
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"
)

type sentimentPoint struct {
	Period         string  `json:"period"`
	SentimentScore float64 `json:"sentimentScore" jsonschema_description:"A score from 1 (very negative) to 5 (very positive)"`
}

type keywordItem struct {
	Text  string  `json:"text"`
	Value float64 `json:"value" jsonschema_description:"Frequency count, scaled for importance"`
}

type wordCloud struct {
	Praises    []keywordItem `json:"praises" jsonschema_description:"Top 15 most frequent and meaningful keywords/phrases from positive feedback."`
	Complaints []keywordItem `json:"complaints" jsonschema_description:"Top 15 most frequent and meaningful keywords/phrases from negative feedback."`
}

type analysisResponse struct {
	SentimentTrend []sentimentPoint `json:"sentimentTrend" jsonschema_description:"An array of objects representing sentiment over time. The 'period' should be sequential like 'Review 1', 'Review 2', etc."`
	WordCloud      wordCloud        `json:"wordCloud"`
	Summary        string           `json:"summary" jsonschema_description:"A concise executive summary (around 150 words) identifying the top 3 actionable areas for improvement based on the reviews."`
}

var analysisSchema = generateSchema[analysisResponse]()

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureStrict(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

// ensureStrict makes every object closed and every property required, which strict
// structured outputs demand.
func ensureStrict(schema map[string]any) {
	delete(schema, "$schema")
	delete(schema, "$id")

	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]any); ok {
			var requiredFields []string
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			if len(requiredFields) > 0 {
				sort.Strings(requiredFields)
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]any); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]any); ok {
				ensureStrict(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]any); ok {
		ensureStrict(items)
	}
}
