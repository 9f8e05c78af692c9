// Package parsers normalises free-form model output into closed enums that
// the graph can branch on.
package parsers

import (
	"strings"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
)

// ParseRouteDecision maps the router model's free-text answer onto the closed
// route enum. The containment tests run in a fixed priority order, retrieve
// then tool, so an answer mentioning both words resolves to retrieve. This is
// a total function: any input, including empty or garbled text, yields a
// decision and never an error.
func ParseRouteDecision(content string) model.RouteDecision {
	decision := strings.ToLower(strings.TrimSpace(content))

	switch {
	case strings.Contains(decision, "retrieve"):
		return model.RouteRetrieve
	case strings.Contains(decision, "tool"):
		return model.RouteTool
	default:
		return model.RouteGeneral
	}
}
