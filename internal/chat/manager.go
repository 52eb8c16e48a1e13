package chat

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
)

// Manager owns the single live Session. Opening a new one closes the previous
// session so it can never receive messages again.
type Manager struct {
	provider llm.Provider

	// OnChange, when set, runs after every transcript append, outside any lock.
	OnChange func(*Session)

	mu      sync.Mutex
	current *Session
}

func NewManager(provider llm.Provider) *Manager {
	return &Manager{provider: provider}
}

func (m *Manager) Open(ctx context.Context, analysisID, chatContext string) (*Session, error) {
	model, err := m.provider.NewChatSession(ctx, llm.ChatSystemPrompt(chatContext))
	if err != nil {
		return nil, fmt.Errorf("open chat: %w", err)
	}
	s := newSession(analysisID, chatContext, model, m.OnChange)

	m.mu.Lock()
	prev := m.current
	m.current = s
	m.mu.Unlock()

	if prev != nil {
		prev.close()
		log.Printf("chat: replaced session=%s analysis=%s with session=%s analysis=%s", prev.ID, prev.AnalysisID, s.ID, analysisID)
	}
	return s, nil
}

// Reset closes the live session without opening another one.
func (m *Manager) Reset() {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if prev != nil {
		prev.close()
	}
}

func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) Send(ctx context.Context, message string) (llm.ChatMessage, error) {
	s := m.Current()
	if s == nil {
		return llm.ChatMessage{}, llm.ErrNotInitialized
	}
	return s.Send(ctx, message)
}
