package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

type CheckLeaveBalanceInput struct {
	EmployeeID string `json:"employee_id"`
}

type checkLeaveBalanceTool struct{}

// NewCheckLeaveBalanceTool builds the leave-balance lookup tool. Balances are
// mocked; production would query the HR system of record.
func NewCheckLeaveBalanceTool() tool.InvokableTool {
	return &checkLeaveBalanceTool{}
}

func (t *checkLeaveBalanceTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolCheckLeaveBalance,
		Desc: "Checks the remaining leave balance for an employee. Returns annual, sick, and personal leave day counts.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"employee_id": {
				Type:     "string",
				Desc:     "Employee ID or email",
				Required: true,
			},
		}),
	}, nil
}

func (t *checkLeaveBalanceTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var in CheckLeaveBalanceInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &in); err != nil {
		return "", fmt.Errorf("%s arguments: %w", ToolCheckLeaveBalance, err)
	}

	annual := 5 + rand.IntN(16)
	sick := 3 + rand.IntN(8)
	personal := 2 + rand.IntN(4)

	return fmt.Sprintf(`Leave Balance for Employee: %s

Annual Leave: %d days
Sick Leave: %d days
Personal Leave: %d days

Total Available: %d days

Note: Balance updates at the start of each month.`, in.EmployeeID, annual, sick, personal, annual+sick+personal), nil
}
