package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

type CreateHRTicketInput struct {
	Issue string `json:"issue"`
}

type createHRTicketTool struct{}

// NewCreateHRTicketTool builds the ticket-creation tool. Creating a ticket
// mutates external state (here a mock), so callers must not retry or
// deduplicate invocations.
func NewCreateHRTicketTool() tool.InvokableTool {
	return &createHRTicketTool{}
}

func (t *createHRTicketTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolCreateHRTicket,
		Desc: "Creates an HR support ticket for employee issues, complaints, or requests. Returns the ticket ID and a confirmation message.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"issue": {
				Type:     "string",
				Desc:     "Description of the issue or request",
				Required: true,
			},
		}),
	}, nil
}

func (t *createHRTicketTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var in CreateHRTicketInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &in); err != nil {
		return "", fmt.Errorf("%s arguments: %w", ToolCreateHRTicket, err)
	}

	ticketID := fmt.Sprintf("TKT-%06d", rand.IntN(1_000_000))
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	return fmt.Sprintf(`HR Ticket Created Successfully

Ticket ID: %s
Issue: %s
Status: Open
Created: %s
Priority: Normal

Your ticket has been submitted to the HR team. You will receive a response within 24-48 hours.`, ticketID, in.Issue, timestamp), nil
}
