package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
)

var (
	ErrService = errors.New("model service unavailable")
)

// ExampleResult is what a model returns for "Great app!\nToo slow to load.".
func ExampleResult() *llm.AnalysisResult {
	return &llm.AnalysisResult{
		SentimentTrend: []llm.SentimentPoint{
			{Period: "Review 1", SentimentScore: 5},
			{Period: "Review 2", SentimentScore: 2},
		},
		WordCloud: llm.WordCloudData{
			Praises:    []llm.KeywordItem{{Text: "great", Value: 1}, {Text: "app", Value: 1}},
			Complaints: []llm.KeywordItem{{Text: "slow", Value: 1}, {Text: "load", Value: 1}},
		},
		Summary: "Users like the app but it is too slow to load. Improve startup time.",
	}
}

// ProviderMock records every call. When Gate is set, AnalyzeReviews blocks until a
// value is received from it or ctx ends.
type ProviderMock struct {
	Result      *llm.AnalysisResult
	AnalyzeErr  error
	ChatReplies []string
	ChatErr     error
	OpenErr     error
	Gate        chan struct{}

	mu            sync.Mutex
	analyzeCalls  []AnalyzeCall
	systemPrompts []string
	sessions      []*ChatSessionMock
}

type AnalyzeCall struct {
	Reviews string
	Mode    llm.Mode
}

func (m *ProviderMock) AnalyzeReviews(ctx context.Context, reviews string, mode llm.Mode) (*llm.AnalysisResult, error) {
	m.mu.Lock()
	m.analyzeCalls = append(m.analyzeCalls, AnalyzeCall{Reviews: reviews, Mode: mode})
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &llm.RequestError{Op: "mock analyze", Err: ctx.Err()}
		}
	}

	if m.AnalyzeErr != nil {
		return nil, m.AnalyzeErr
	}
	if m.Result == nil {
		return ExampleResult(), nil
	}
	return m.Result, nil
}

func (m *ProviderMock) NewChatSession(ctx context.Context, systemPrompt string) (llm.ChatSession, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	s := &ChatSessionMock{Replies: append([]string(nil), m.ChatReplies...), Err: m.ChatErr}

	m.mu.Lock()
	m.systemPrompts = append(m.systemPrompts, systemPrompt)
	m.sessions = append(m.sessions, s)
	m.mu.Unlock()
	return s, nil
}

func (m *ProviderMock) AnalyzeCalls() []AnalyzeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AnalyzeCall(nil), m.analyzeCalls...)
}

func (m *ProviderMock) SystemPrompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.systemPrompts...)
}

func (m *ProviderMock) Sessions() []*ChatSessionMock {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ChatSessionMock(nil), m.sessions...)
}

// ChatSessionMock replies with Replies in order, then echoes the message.
type ChatSessionMock struct {
	Replies []string
	Err     error

	mu       sync.Mutex
	received []string
}

func (s *ChatSessionMock) SendMessage(ctx context.Context, userMessage string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.received = append(s.received, userMessage)
	if s.Err != nil {
		return "", &llm.RequestError{Op: "mock chat", Err: s.Err}
	}
	if len(s.Replies) > 0 {
		r := s.Replies[0]
		s.Replies = s.Replies[1:]
		return r, nil
	}
	return "echo: " + userMessage, nil
}

func (s *ChatSessionMock) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}
