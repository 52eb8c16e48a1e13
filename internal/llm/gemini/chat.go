package gemini

import (
	"context"
	"strings"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"google.golang.org/genai"
)

// ChatSession wraps a genai.Chat, which records every turn and resends the history
// itself.
type ChatSession struct {
	chat *genai.Chat
}

func (s *ChatSession) SendMessage(ctx context.Context, userMessage string) (string, error) {
	res, err := s.chat.SendMessage(ctx, genai.Part{Text: userMessage})
	if err != nil {
		return "", &llm.RequestError{Op: "gemini chat send", Err: err}
	}

	text, err := responseText(res)
	if err != nil {
		return "", &llm.RequestError{Op: "gemini chat send", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &llm.RequestError{Op: "gemini chat send", Err: errEmptyReply}
	}
	return text, nil
}
