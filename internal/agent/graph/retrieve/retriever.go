// Package retrieve adapts the document index for the pipeline: it augments
// the query with classifier boost terms, formats matches with their section
// labels, and degrades to a fallback sentence instead of failing.
package retrieve

import (
	"context"
	"strings"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// TopK is the fixed number of passages requested per retrieval.
const TopK = 5

// FallbackContext is returned when retrieval yields nothing, so downstream
// composition always has a non-empty context to reason over.
const FallbackContext = "No direct match found, checking policies semantically..."

const passageSeparator = "\n\n---\n\n"

// Retriever wraps a DocumentIndex behind the pipeline's retrieval contract.
type Retriever struct {
	index model.DocumentIndex
}

func New(index model.DocumentIndex) *Retriever {
	return &Retriever{index: index}
}

// Retrieve searches the index with the boost-augmented query and returns the
// formatted context plus the distinct section labels seen. Index errors and
// empty result sets both degrade to FallbackContext; retrieval is never a
// hard failure.
func (r *Retriever) Retrieve(ctx context.Context, query, boostPhrase string) (string, []string) {
	effective := query
	if boostPhrase != "" {
		effective = query + " " + boostPhrase
	}

	passages, err := r.index.Search(ctx, effective, TopK)
	if err != nil {
		logx.Warn().Err(err).Msg("Document index search failed, using fallback context")
		return FallbackContext, nil
	}
	if len(passages) == 0 {
		logx.Debug().Str("query", effective).Msg("No passages matched, using fallback context")
		return FallbackContext, nil
	}

	parts := make([]string, 0, len(passages))
	var sections []string
	seen := make(map[string]bool)

	for _, p := range passages {
		if p.Section != "" {
			parts = append(parts, "["+p.Section+"]\n"+p.Text)
			if !seen[p.Section] {
				seen[p.Section] = true
				sections = append(sections, p.Section)
			}
		} else {
			parts = append(parts, p.Text)
		}
	}

	logx.Debug().
		Int("passages", len(passages)).
		Strs("sections", sections).
		Msg("Retrieved policy context")

	return strings.Join(parts, passageSeparator), sections
}
