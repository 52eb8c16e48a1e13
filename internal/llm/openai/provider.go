package openai

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

type Models struct {
	Fast     string
	Thinking string
	Chat     string
}

func DefaultModels() Models {
	return Models{
		Fast:     "gpt-5-mini",
		Thinking: "gpt-5",
		Chat:     "gpt-5-mini",
	}
}

type Provider struct {
	client *oai.Client
	models Models
}

// NewProvider disables the SDK's automatic retries: a failed attempt surfaces directly.
func NewProvider(apiKey string, models Models, opts ...option.RequestOption) *Provider {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := oai.NewClient(opts...)
	return &Provider{
		client: &client,
		models: models,
	}
}

func (p *Provider) analysisParams(reviews string, mode llm.Mode) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: p.models.Fast,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: oai.String(llm.AnalysisPrompt(reviews)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "ReviewAnalysis",
					Schema:      analysisSchema,
					Strict:      oai.Bool(true),
					Description: oai.String("Customer review sentiment analysis JSON"),
					Type:        "json_schema",
				},
			},
		},
		Reasoning: shared.ReasoningParam{Effort: shared.ReasoningEffortLow},
	}
	if mode == llm.ModeThinking {
		params.Model = p.models.Thinking
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffortHigh}
	}
	return params
}

func (p *Provider) AnalyzeReviews(ctx context.Context, reviews string, mode llm.Mode) (*llm.AnalysisResult, error) {
	if strings.TrimSpace(reviews) == "" {
		return nil, llm.ErrEmptyInput
	}

	params := p.analysisParams(reviews, mode)
	resp, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return nil, &llm.RequestError{Op: "openai responses " + params.Model, Err: err}
	}
	if err := checkStatus(resp); err != nil {
		return nil, &llm.RequestError{Op: "openai responses " + params.Model, Err: err}
	}

	return llm.ParseAnalysis(resp.OutputText())
}

// NewChatSession needs no network round trip: the conversation is created server side
// by the first message and chained through previous_response_id afterwards.
func (p *Provider) NewChatSession(ctx context.Context, systemPrompt string) (llm.ChatSession, error) {
	return &ChatSession{
		client:       p.client,
		model:        p.models.Chat,
		instructions: systemPrompt,
	}, nil
}

type ChatSession struct {
	client       *oai.Client
	model        string
	instructions string

	mu             sync.Mutex
	lastResponseID string
}

func (s *ChatSession) SendMessage(ctx context.Context, userMessage string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params := responses.ResponseNewParams{
		Model:        s.model,
		Instructions: oai.String(s.instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: oai.String(userMessage),
		},
		Store: oai.Bool(true),
	}
	if s.lastResponseID != "" {
		params.PreviousResponseID = oai.String(s.lastResponseID)
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		return "", &llm.RequestError{Op: "openai chat send", Err: err}
	}
	if err := checkStatus(resp); err != nil {
		return "", &llm.RequestError{Op: "openai chat send", Err: err}
	}
	text := resp.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", &llm.RequestError{Op: "openai chat send", Err: errEmptyReply}
	}
	s.lastResponseID = resp.ID
	return text, nil
}

var errEmptyReply = errors.New("response has no text")

func checkStatus(resp *responses.Response) error {
	switch resp.Status {
	case responses.ResponseStatusFailed, responses.ResponseStatusIncomplete:
		return errors.New("response " + string(resp.Status))
	}
	return nil
}
