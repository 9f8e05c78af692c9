package model

import "context"

// Passage is one retrieved policy fragment. Section carries the
// human-readable heading used for citation-style grounding; it may be empty.
type Passage struct {
	Text    string `json:"text"`
	Section string `json:"section,omitempty"`
}

// DocumentIndex is the similarity-search collaborator the retriever adapter
// calls. Implementations must tolerate k up to at least 5 and must return an
// empty slice, not an error, for empty or unmatched queries.
type DocumentIndex interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}
