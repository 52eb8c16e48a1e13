package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"github.com/google/uuid"
)

const (
	Greeting        = "Hello! Ask me anything about the sentiment analysis results."
	FallbackMessage = "Sorry, I encountered an error. Please try again."
)

// Session is one conversation bound to a single analysis. Its transcript only ever
// grows: the greeting, then a user/assistant pair per exchange.
type Session struct {
	ID         string
	AnalysisID string

	model   llm.ChatSession
	context string

	mu         sync.Mutex
	transcript []llm.ChatMessage
	closed     bool

	onChange func(*Session)
}

func newSession(analysisID, chatContext string, model llm.ChatSession, onChange func(*Session)) *Session {
	return &Session{
		ID:         uuid.NewString(),
		AnalysisID: analysisID,
		model:      model,
		context:    chatContext,
		transcript: []llm.ChatMessage{llm.AssistantMessage(Greeting)},
		onChange:   onChange,
	}
}

func (s *Session) Context() string {
	return s.context
}

// Send appends the user turn and forwards only that turn to the model session. When
// the model call fails the fallback reply is appended and returned with the error.
// Callers must not run two Sends on one session at the same time.
func (s *Session) Send(ctx context.Context, message string) (llm.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return llm.ChatMessage{}, llm.ErrEmptyInput
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return llm.ChatMessage{}, llm.ErrSessionClosed
	}
	s.transcript = append(s.transcript, llm.UserMessage(message))
	s.mu.Unlock()
	s.changed()

	text, err := s.model.SendMessage(ctx, message)

	reply := llm.AssistantMessage(text)
	if err != nil {
		reply = llm.AssistantMessage(FallbackMessage)
		err = fmt.Errorf("chat session %s: %w", s.ID, err)
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, reply)
	s.mu.Unlock()
	s.changed()

	return reply, err
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange(s)
	}
}

func (s *Session) Transcript() []llm.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.ChatMessage(nil), s.transcript...)
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
