package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"google.golang.org/genai"
)

type Models struct {
	Fast           string
	Thinking       string
	Chat           string
	ThinkingBudget int32
}

func DefaultModels() Models {
	return Models{
		Fast:           "gemini-2.5-flash",
		Thinking:       "gemini-2.5-pro",
		Chat:           "gemini-2.5-flash",
		ThinkingBudget: 32768,
	}
}

type Provider struct {
	client *genai.Client
	models Models
}

func NewProvider(ctx context.Context, apiKey string, models Models) (*Provider, error) {
	return newProvider(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, models)
}

func newProvider(ctx context.Context, cfg *genai.ClientConfig, models Models) (*Provider, error) {
	genClient, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client: genClient,
		models: models,
	}, nil
}

// generateConfig picks the low-latency model or the reasoning model with an explicit
// thinking budget.
func (p *Provider) generateConfig(mode llm.Mode) (string, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
	}
	if mode == llm.ModeThinking {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(p.models.ThinkingBudget),
		}
		return p.models.Thinking, config
	}
	return p.models.Fast, config
}

func (p *Provider) AnalyzeReviews(ctx context.Context, reviews string, mode llm.Mode) (*llm.AnalysisResult, error) {
	if strings.TrimSpace(reviews) == "" {
		return nil, llm.ErrEmptyInput
	}

	model, config := p.generateConfig(mode)
	res, err := p.client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(llm.AnalysisPrompt(reviews)),
		config,
	)
	if err != nil {
		return nil, &llm.RequestError{Op: "gemini generate " + model, Err: err}
	}

	text, err := responseText(res)
	if err != nil {
		return nil, &llm.RequestError{Op: "gemini generate " + model, Err: err}
	}

	return llm.ParseAnalysis(text)
}

func (p *Provider) NewChatSession(ctx context.Context, systemPrompt string) (llm.ChatSession, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	history := []*genai.Content{}
	chat, err := p.client.Chats.Create(ctx, p.models.Chat, config, history)
	if err != nil {
		return nil, &llm.RequestError{Op: "gemini chat create", Err: err}
	}

	return &ChatSession{
		chat: chat,
	}, nil
}

var (
	errNoCandidates = errors.New("response has no candidates")
	errEmptyReply   = errors.New("response has no text")
)

// responseText joins the non-thought text parts of the first candidate. A blocked
// ("inappropriate") prompt comes back without candidates.
func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		if res != nil && res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: blocked (%s)", errNoCandidates, res.PromptFeedback.BlockReason)
		}
		return "", errNoCandidates
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
