package llm

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type ChatMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

func UserMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderUser, Text: text}
}

func AssistantMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderAssistant, Text: text}
}
