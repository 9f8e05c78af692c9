package tools

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ticketIDPattern = regexp.MustCompile(`TKT-\d{6}`)

func TestCreateHRTicket(t *testing.T) {
	ctx := context.Background()
	tl := NewCreateHRTicketTool()

	out, err := tl.InvokableRun(ctx, `{"issue":"broken laptop"}`)
	require.NoError(t, err)
	assert.Regexp(t, ticketIDPattern, out)
	assert.Contains(t, out, "broken laptop")
	assert.Contains(t, out, "Status: Open")
}

func TestCreateHRTicketBadArguments(t *testing.T) {
	tl := NewCreateHRTicketTool()
	_, err := tl.InvokableRun(context.Background(), `not json`)
	assert.Error(t, err)
}

func TestCheckLeaveBalance(t *testing.T) {
	tl := NewCheckLeaveBalanceTool()

	out, err := tl.InvokableRun(context.Background(), `{"employee_id":"emp-042"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "emp-042")
	assert.Contains(t, out, "Annual Leave:")
	assert.Contains(t, out, "Sick Leave:")
}

func TestCheckTicketStatus(t *testing.T) {
	tl := NewCheckTicketStatusTool()

	out, err := tl.InvokableRun(context.Background(), `{"ticket_id":"TKT-123456"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "TKT-123456")
	assert.Contains(t, out, "Status:")
}

func TestCheckTicketStatusWithoutID(t *testing.T) {
	tl := NewCheckTicketStatusTool()

	out, err := tl.InvokableRun(context.Background(), `{}`)
	require.NoError(t, err)
	assert.Regexp(t, ticketIDPattern, out)
}

func TestRegistryNamesMatchInfos(t *testing.T) {
	ctx := context.Background()
	reg := Registry()
	assert.Len(t, reg, 3)

	for name, tl := range reg {
		info, err := tl.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, name, info.Name)
	}

	infos, err := GetToolInfos(ctx, GetHRTools())
	require.NoError(t, err)
	assert.Len(t, infos, 3)
}
