package llm

import "context"

const (
	MinSentimentScore float64 = 1
	MaxSentimentScore float64 = 5

	// MaxKeywords caps each of the praise and complaint lists.
	MaxKeywords = 15
)

type Provider interface {
	AnalyzeReviews(ctx context.Context, reviews string, mode Mode) (*AnalysisResult, error)
	NewChatSession(ctx context.Context, systemPrompt string) (ChatSession, error)
}

// ChatSession keeps its own conversation history on the provider side, so callers
// only ever send the newest user turn.
type ChatSession interface {
	SendMessage(ctx context.Context, userMessage string) (string, error)
}

type Mode int

const (
	ModeFast Mode = iota
	ModeThinking
)

func ModeFromThinking(thinking bool) Mode {
	if thinking {
		return ModeThinking
	}
	return ModeFast
}

func (m Mode) String() string {
	switch m {
	case ModeThinking:
		return "thinking"
	default:
		return "fast"
	}
}

type SentimentPoint struct {
	Period         string  `json:"period"`
	SentimentScore float64 `json:"sentimentScore"`
}

type KeywordItem struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type WordCloudData struct {
	Praises    []KeywordItem `json:"praises"`
	Complaints []KeywordItem `json:"complaints"`
}

type AnalysisResult struct {
	SentimentTrend []SentimentPoint `json:"sentimentTrend"`
	WordCloud      WordCloudData    `json:"wordCloud"`
	Summary        string           `json:"summary"`
}
