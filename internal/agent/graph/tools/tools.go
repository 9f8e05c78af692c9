// Package tools implements the closed registry of HR action tools. Each tool
// is an Eino InvokableTool whose run result is the human-readable text shown
// to the employee.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Tool names. The registry is closed over these three but new tools only need
// a new entry in Registry and an alias table in the dispatcher.
const (
	ToolCreateHRTicket    = "create_hr_ticket"
	ToolCheckLeaveBalance = "check_leave_balance"
	ToolCheckTicketStatus = "check_ticket_status"
)

// Registry returns the tool set keyed by name.
func Registry() map[string]tool.InvokableTool {
	return map[string]tool.InvokableTool{
		ToolCreateHRTicket:    NewCreateHRTicketTool(),
		ToolCheckLeaveBalance: NewCheckLeaveBalanceTool(),
		ToolCheckTicketStatus: NewCheckTicketStatusTool(),
	}
}

// GetHRTools returns the registry as a slice for info collection and binding.
func GetHRTools() []tool.BaseTool {
	return []tool.BaseTool{
		NewCreateHRTicketTool(),
		NewCheckLeaveBalanceTool(),
		NewCheckTicketStatusTool(),
	}
}

// GetToolInfos collects ToolInfo from the provided tools.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
