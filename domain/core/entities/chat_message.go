package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole tells who authored a message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in a session transcript.
type ChatMessage struct {
	ID        string   `json:"id"`
	Role      ChatRole `json:"role"`
	Content   string   `json:"content"`
	Timestamp int64    `json:"timestamp"`
}

// NewChatMessage stamps a message with a fresh id and the given time.
func NewChatMessage(role ChatRole, content string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: at.UnixMilli(),
	}
}

// ChatHistory is the persisted transcript. It is append-only.
type ChatHistory struct {
	Messages    []ChatMessage `json:"messages"`
	LastUpdated int64         `json:"lastUpdated"`
}

// Append adds a message and bumps LastUpdated.
func (h *ChatHistory) Append(msg ChatMessage) {
	h.Messages = append(h.Messages, msg)
	if msg.Timestamp > h.LastUpdated {
		h.LastUpdated = msg.Timestamp
	}
}

// IsEmpty reports whether the transcript has no messages.
func (h *ChatHistory) IsEmpty() bool {
	return len(h.Messages) == 0
}
