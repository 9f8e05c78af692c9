package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino graph.
// Concurrency model:
//   - The struct is registered as graph local state via compose.WithGenLocalState,
//     so every invocation gets a fresh instance and concurrent invocations never
//     share one.
//   - All reads/writes happen only inside Eino state handlers
//     (WithStatePreHandler, WithStatePostHandler) or compose.ProcessState,
//     which serialize access. No additional locking is required.
type AppState struct {
	ConversationID string
	Query          string // original user utterance, immutable after seeding

	// Set once by the classifier before routing.
	QueryCategory QueryCategory
	BoostPhrase   string

	// Set once by the route parser.
	RouteDecision RouteDecision

	// Retrieval output, or the tool result text when the tool branch ran.
	RetrievedContext  string
	RetrievedSections []string

	// Append-only audit trail; ToolResults stays parallel to ToolInvocations.
	ToolInvocations []ToolInvocation
	ToolResults     []string

	Response   string
	Transcript []*schema.Message

	// Iteration is reserved for multi-step extensions; the current pipeline
	// traverses the graph exactly once and never increments it.
	Iteration int
}

// QueryInput is the public input for one pipeline invocation. History carries
// the caller-owned prior transcript; the core never mutates it.
type QueryInput struct {
	ConversationID string            `json:"conversation_id"`
	Query          string            `json:"query"`
	History        []*schema.Message `json:"history,omitempty"`
}

// Classification is the classifier node output.
type Classification struct {
	Query       string
	Category    QueryCategory
	BoostPhrase string
}

// ToolInvocation records one dispatched tool call with its normalized
// parameters.
type ToolInvocation struct {
	Tool   string            `json:"tool"`
	Params map[string]string `json:"params"`
}

// Result is the full invocation outcome returned to the caller so UI layers
// can inspect intermediate routing and classification.
type Result struct {
	Response          string            `json:"response"`
	Transcript        []*schema.Message `json:"transcript"`
	ToolInvocations   []ToolInvocation  `json:"tool_invocations"`
	ToolResults       []string          `json:"tool_results"`
	RouteDecision     RouteDecision     `json:"route_decision"`
	QueryCategory     QueryCategory     `json:"query_category"`
	RetrievedContext  string            `json:"retrieved_context,omitempty"`
	RetrievedSections []string          `json:"retrieved_sections,omitempty"`
}
