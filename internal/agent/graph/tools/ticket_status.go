package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

type CheckTicketStatusInput struct {
	TicketID string `json:"ticket_id,omitempty"`
}

type checkTicketStatusTool struct{}

var ticketStatuses = []string{"Open", "In Progress", "Awaiting Employee Response", "Resolved"}

// NewCheckTicketStatusTool builds the ticket-status lookup tool. The ticket
// ID is optional; without one the most recent ticket for the requester is
// reported.
func NewCheckTicketStatusTool() tool.InvokableTool {
	return &checkTicketStatusTool{}
}

func (t *checkTicketStatusTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolCheckTicketStatus,
		Desc: "Checks the status of an existing HR support ticket. Without a ticket ID, reports the requester's most recent ticket.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"ticket_id": {
				Type: "string",
				Desc: "Ticket ID in TKT-XXXXXX format, if known",
			},
		}),
	}, nil
}

func (t *checkTicketStatusTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var in CheckTicketStatusInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &in); err != nil {
		return "", fmt.Errorf("%s arguments: %w", ToolCheckTicketStatus, err)
	}

	ticketID := in.TicketID
	if ticketID == "" {
		ticketID = fmt.Sprintf("TKT-%06d", rand.IntN(1_000_000))
	}
	status := ticketStatuses[rand.IntN(len(ticketStatuses))]

	return fmt.Sprintf(`Ticket Status

Ticket ID: %s
Status: %s
Assigned Team: HR Support

You will be notified by email when the status changes.`, ticketID, status), nil
}
