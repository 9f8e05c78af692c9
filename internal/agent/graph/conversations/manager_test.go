package conversations

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
)

type fakeRepo struct {
	messages map[string][]*schema.Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{messages: map[string][]*schema.Message{}}
}

func (f *fakeRepo) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	f.messages[conversationID] = append(f.messages[conversationID], message)
	return nil
}

func (f *fakeRepo) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	return &model.ConversationHistory{Messages: f.messages[conversationID]}, nil
}

func (f *fakeRepo) ClearHistory(ctx context.Context, conversationID string) error {
	delete(f.messages, conversationID)
	return nil
}

func (f *fakeRepo) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	return len(f.messages[conversationID]), nil
}

func TestSaveExchangeAndLoad(t *testing.T) {
	repo := newFakeRepo()
	cfg := model.ConversationConfig{}
	cfg.History.MaxTurns = 20
	tm := NewTranscriptManager(repo, cfg)

	require.NoError(t, tm.SaveExchange(context.Background(), "c1", "hello", "hi there"))

	got, err := tm.LoadTranscript(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, schema.User, got[0].Role)
	assert.Equal(t, "hello", got[0].Content)
	assert.Equal(t, schema.Assistant, got[1].Role)
	assert.Equal(t, "hi there", got[1].Content)
}

func TestLoadTranscriptBoundsWindow(t *testing.T) {
	repo := newFakeRepo()
	cfg := model.ConversationConfig{}
	cfg.History.MaxTurns = 4
	tm := NewTranscriptManager(repo, cfg)

	for i := 0; i < 6; i++ {
		require.NoError(t, tm.SaveExchange(context.Background(), "c2", "q", "a"))
	}

	got, err := tm.LoadTranscript(context.Background(), "c2")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestTrimTail(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("1"),
		schema.AssistantMessage("2", nil),
		schema.UserMessage("3"),
	}

	assert.Len(t, trimTail(msgs, 2), 2)
	assert.Equal(t, "2", trimTail(msgs, 2)[0].Content)
	assert.Len(t, trimTail(msgs, 10), 3)
	assert.Empty(t, trimTail(nil, 5))
}
