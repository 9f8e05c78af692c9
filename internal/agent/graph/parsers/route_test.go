package parsers

import (
	"testing"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	"github.com/stretchr/testify/assert"
)

func TestParseRouteDecision(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    model.RouteDecision
	}{
		{"exact retrieve", "retrieve", model.RouteRetrieve},
		{"exact tool", "tool", model.RouteTool},
		{"exact general", "general", model.RouteGeneral},
		{"uppercase", "RETRIEVE", model.RouteRetrieve},
		{"verbose answer", "I would choose the \"tool\" action here.", model.RouteTool},
		{"whitespace", "  retrieve\n", model.RouteRetrieve},
		{"both words prefer retrieve", "either retrieve or tool would work", model.RouteRetrieve},
		{"garbage", "banana", model.RouteGeneral},
		{"empty", "", model.RouteGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRouteDecision(tt.content))
		})
	}
}
