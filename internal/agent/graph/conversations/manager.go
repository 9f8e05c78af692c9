package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
)

// TranscriptManager bridges the caller-owned transcript and the persistence
// layer: the pipeline core only ever sees transcript slices, and this manager
// loads/saves them around each invocation.
type TranscriptManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewTranscriptManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *TranscriptManager {
	return &TranscriptManager{
		conversationRepo: conversationRepo,
		maxTurns:         config.History.MaxTurns,
	}
}

// LoadTranscript returns the most recent turns of the conversation, bounded
// by the configured history window.
func (tm *TranscriptManager) LoadTranscript(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := tm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return trimTail(history.Messages, tm.maxTurns), nil
}

// SaveExchange persists one completed query/response pair.
func (tm *TranscriptManager) SaveExchange(ctx context.Context, conversationID, query, response string) error {
	if err := tm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query)); err != nil {
		return err
	}
	return tm.conversationRepo.AddMessage(ctx, conversationID, schema.AssistantMessage(response, nil))
}

// trimTail returns a copy of the last maxTurns messages.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
