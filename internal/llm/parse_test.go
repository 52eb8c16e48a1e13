package llm

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{
  "sentimentTrend": [
    {"period": "Review 1", "sentimentScore": 5},
    {"period": "Review 2", "sentimentScore": 1.5}
  ],
  "wordCloud": {
    "praises": [{"text": "app", "value": 1}, {"text": "great", "value": 2}],
    "complaints": [{"text": "slow", "value": 1}, {"text": "load", "value": 1}]
  },
  "summary": "Users like the app but loading is slow."
}`

func TestParseAnalysis_Valid(t *testing.T) {
	t.Parallel()

	res, err := ParseAnalysis("\n  " + validReply + "\n")
	require.NoError(t, err)

	require.Len(t, res.SentimentTrend, 2)
	assert.Equal(t, SentimentPoint{Period: "Review 1", SentimentScore: 5}, res.SentimentTrend[0])
	assert.Equal(t, SentimentPoint{Period: "Review 2", SentimentScore: 1.5}, res.SentimentTrend[1])

	// descending by value, stable for ties
	assert.Equal(t, []KeywordItem{{Text: "great", Value: 2}, {Text: "app", Value: 1}}, res.WordCloud.Praises)
	assert.Equal(t, []KeywordItem{{Text: "slow", Value: 1}, {Text: "load", Value: 1}}, res.WordCloud.Complaints)
	assert.Equal(t, "Users like the app but loading is slow.", res.Summary)
}

func TestParseAnalysis_EmptyKeywordListsAllowed(t *testing.T) {
	t.Parallel()

	res, err := ParseAnalysis(`{"sentimentTrend":[{"period":"Review 1","sentimentScore":4}],"wordCloud":{"praises":[],"complaints":[]},"summary":"ok"}`)
	require.NoError(t, err)
	assert.Empty(t, res.WordCloud.Praises)
	assert.Empty(t, res.WordCloud.Complaints)
}

func TestParseAnalysis_Rejects(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, MaxKeywords+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf(`{"text":"k%d","value":1}`, i)
	}

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"empty", "   ", ""},
		{"not json", "Here is your analysis!", ""},
		{"missing summary", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"wordCloud":{"praises":[],"complaints":[]}}`, "summary"},
		{"null summary", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"wordCloud":{"praises":[],"complaints":[]},"summary":null}`, "summary"},
		{"blank summary", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"wordCloud":{"praises":[],"complaints":[]},"summary":"  "}`, "summary"},
		{"summary wrong type", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"wordCloud":{"praises":[],"complaints":[]},"summary":42}`, "summary"},
		{"missing trend", `{"wordCloud":{"praises":[],"complaints":[]},"summary":"s"}`, "sentimentTrend"},
		{"empty trend", `{"sentimentTrend":[],"wordCloud":{"praises":[],"complaints":[]},"summary":"s"}`, "sentimentTrend"},
		{"score as string", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":"5"}],"wordCloud":{"praises":[],"complaints":[]},"summary":"s"}`, ""},
		{"score too low", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":0}],"wordCloud":{"praises":[],"complaints":[]},"summary":"s"}`, "sentimentTrend[0].sentimentScore"},
		{"score too high", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":5.01}],"wordCloud":{"praises":[],"complaints":[]},"summary":"s"}`, "sentimentTrend[0].sentimentScore"},
		{"missing period", `{"sentimentTrend":[{"sentimentScore":3}],"wordCloud":{"praises":[],"complaints":[]},"summary":"s"}`, "sentimentTrend[0].period"},
		{"missing word cloud", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"summary":"s"}`, "wordCloud"},
		{"missing complaints", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"wordCloud":{"praises":[]},"summary":"s"}`, "wordCloud.complaints"},
		{"negative value", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"wordCloud":{"praises":[{"text":"a","value":-1}],"complaints":[]},"summary":"s"}`, "wordCloud.praises[0].value"},
		{"keyword missing value", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"wordCloud":{"praises":[{"text":"a"}],"complaints":[]},"summary":"s"}`, "wordCloud.praises[0].value"},
		{"too many keywords", `{"sentimentTrend":[{"period":"Review 1","sentimentScore":3}],"wordCloud":{"praises":[` + strings.Join(tooMany, ",") + `],"complaints":[]},"summary":"s"}`, "wordCloud.praises"},
		{"trailing text", validReply + " thanks!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := ParseAnalysis(tc.body)
			require.Error(t, err)
			assert.Nil(t, res)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			if tc.field != "" {
				assert.Equal(t, tc.field, pe.Field)
			}
			assert.True(t, IsParseError(err))
			assert.False(t, IsRequestError(err))
		})
	}
}

func TestRequestError_Unwrap(t *testing.T) {
	t.Parallel()

	base := errors.New("connection refused")
	err := fmt.Errorf("analyze: %w", &RequestError{Op: "gemini generate", Err: base})

	assert.True(t, IsRequestError(err))
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "gemini generate: connection refused")
}
