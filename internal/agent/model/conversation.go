package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ConversationRepository persists conversation transcripts between
// invocations. The pipeline core never depends on it directly; the runner
// uses it to bridge caller-owned transcripts across process boundaries.
type ConversationRepository interface {
	// AddMessage appends a message to the conversation history.
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadHistory retrieves the conversation history for a conversation.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes all conversation history for a conversation.
	ClearHistory(ctx context.Context, conversationID string) error

	// GetMessageCount returns the number of messages in the conversation.
	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}
