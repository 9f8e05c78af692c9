package retrieve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
)

type stubIndex struct {
	passages  []model.Passage
	err       error
	lastQuery string
	lastK     int
}

func (s *stubIndex) Search(ctx context.Context, query string, k int) ([]model.Passage, error) {
	s.lastQuery = query
	s.lastK = k
	return s.passages, s.err
}

func TestRetrieveFormatsPassages(t *testing.T) {
	idx := &stubIndex{passages: []model.Passage{
		{Text: "Employees are entitled to 10 days.", Section: "Sick Leave"},
		{Text: "Unlabeled fragment."},
		{Text: "Carry-over is capped.", Section: "Annual Leave"},
	}}
	r := New(idx)

	contextText, sections := r.Retrieve(context.Background(), "leave policy", "")

	assert.Equal(t,
		"[Sick Leave]\nEmployees are entitled to 10 days."+
			"\n\n---\n\n"+
			"Unlabeled fragment."+
			"\n\n---\n\n"+
			"[Annual Leave]\nCarry-over is capped.",
		contextText)
	assert.ElementsMatch(t, []string{"Sick Leave", "Annual Leave"}, sections)
}

func TestRetrieveDeduplicatesSections(t *testing.T) {
	idx := &stubIndex{passages: []model.Passage{
		{Text: "a", Section: "Sick Leave"},
		{Text: "b", Section: "Sick Leave"},
	}}
	_, sections := New(idx).Retrieve(context.Background(), "q", "")
	assert.Equal(t, []string{"Sick Leave"}, sections)
}

func TestRetrieveAppendsBoostPhrase(t *testing.T) {
	idx := &stubIndex{}
	New(idx).Retrieve(context.Background(), "can I take leave for a fever", "sick leave medical condition health illness")

	assert.Equal(t, "can I take leave for a fever sick leave medical condition health illness", idx.lastQuery)
	assert.Equal(t, TopK, idx.lastK)
}

func TestRetrieveNoBoostLeavesQueryUnchanged(t *testing.T) {
	idx := &stubIndex{}
	New(idx).Retrieve(context.Background(), "plain query", "")
	assert.Equal(t, "plain query", idx.lastQuery)
}

func TestRetrieveEmptyResultsFallback(t *testing.T) {
	idx := &stubIndex{}
	contextText, sections := New(idx).Retrieve(context.Background(), "q", "")

	assert.Equal(t, FallbackContext, contextText)
	assert.Empty(t, sections)
	assert.NotEmpty(t, contextText)
}

func TestRetrieveIndexErrorFallback(t *testing.T) {
	idx := &stubIndex{err: errors.New("index offline")}
	contextText, sections := New(idx).Retrieve(context.Background(), "q", "")

	assert.Equal(t, FallbackContext, contextText)
	assert.Empty(t, sections)
}
