package dispatch

import (
	"context"
	"errors"
	"regexp"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/tools"
)

type stubModel struct {
	reply string
	err   error
}

func (s *stubModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func newDispatcher(reply string) *Dispatcher {
	return New(&stubModel{reply: reply}, "system", tools.Registry())
}

var ticketIDPattern = regexp.MustCompile(`TKT-\d{6}`)

func TestExecuteStructuredTicketSelection(t *testing.T) {
	d := newDispatcher(`{"tool": "create_hr_ticket", "parameters": {"issue": "broken laptop"}}`)

	out, err := d.Execute(context.Background(), "Create a ticket for a broken laptop")
	require.NoError(t, err)
	require.NotNil(t, out.Invocation)
	assert.Equal(t, tools.ToolCreateHRTicket, out.Invocation.Tool)
	assert.Equal(t, "broken laptop", out.Invocation.Params["issue"])
	assert.Regexp(t, ticketIDPattern, out.Result)
	assert.Equal(t, out.Result, out.Response)
}

func TestExecuteAliasResolutionOrder(t *testing.T) {
	// "subject" outranks "description" in the ticket alias table.
	d := newDispatcher(`{"tool": "create_hr_ticket", "parameters": {"description": "longer text", "subject": "chair request"}}`)

	out, err := d.Execute(context.Background(), "ignored")
	require.NoError(t, err)
	require.NotNil(t, out.Invocation)
	assert.Equal(t, "chair request", out.Invocation.Params["issue"])
}

func TestExecuteTicketIssueFallsBackToQuery(t *testing.T) {
	d := newDispatcher(`{"tool": "create_hr_ticket", "parameters": {}}`)

	out, err := d.Execute(context.Background(), "my badge stopped working")
	require.NoError(t, err)
	require.NotNil(t, out.Invocation)
	assert.Equal(t, "my badge stopped working", out.Invocation.Params["issue"])
}

func TestExecuteBalanceDefaultsToCurrentUser(t *testing.T) {
	d := newDispatcher(`{"tool": "check_leave_balance", "parameters": {}}`)

	out, err := d.Execute(context.Background(), "how many days do I have left?")
	require.NoError(t, err)
	require.NotNil(t, out.Invocation)
	// The identifier never falls back to the raw query.
	assert.Equal(t, CurrentUserSentinel, out.Invocation.Params["employee_id"])
}

func TestExecuteBalanceUserIDAlias(t *testing.T) {
	d := newDispatcher(`{"tool": "check_leave_balance", "parameters": {"user_id": "emp-007"}}`)

	out, err := d.Execute(context.Background(), "balance please")
	require.NoError(t, err)
	require.NotNil(t, out.Invocation)
	assert.Equal(t, "emp-007", out.Invocation.Params["employee_id"])
}

func TestExecuteStatusWithoutIDOmitsParameter(t *testing.T) {
	d := newDispatcher(`{"tool": "check_ticket_status", "parameters": {}}`)

	out, err := d.Execute(context.Background(), "what's the status of my ticket?")
	require.NoError(t, err)
	require.NotNil(t, out.Invocation)
	_, has := out.Invocation.Params["ticket_id"]
	assert.False(t, has)
}

func TestExecuteUnknownToolName(t *testing.T) {
	d := newDispatcher(`{"tool": "delete_employee", "parameters": {}}`)

	out, err := d.Execute(context.Background(), "whatever")
	require.NoError(t, err)
	assert.Nil(t, out.Invocation)
	assert.Empty(t, out.Result)
	assert.Equal(t, UnknownToolResponse, out.Response)
}

func TestExecuteFallbackNameMatch(t *testing.T) {
	d := newDispatcher("You should use create_hr_ticket for this request.")

	out, err := d.Execute(context.Background(), "the printer is on fire")
	require.NoError(t, err)
	require.NotNil(t, out.Invocation)
	assert.Equal(t, tools.ToolCreateHRTicket, out.Invocation.Tool)
	assert.Equal(t, "the printer is on fire", out.Invocation.Params["issue"])
}

func TestExecuteFallbackPriorityOrder(t *testing.T) {
	// Both names present in prose: ticket creation wins.
	d := newDispatcher("maybe check_leave_balance, or perhaps create_hr_ticket")

	out, err := d.Execute(context.Background(), "q")
	require.NoError(t, err)
	require.NotNil(t, out.Invocation)
	assert.Equal(t, tools.ToolCreateHRTicket, out.Invocation.Tool)
}

func TestExecuteUndeterminable(t *testing.T) {
	d := newDispatcher("I have no idea what you want.")

	out, err := d.Execute(context.Background(), "q")
	require.NoError(t, err)
	assert.Nil(t, out.Invocation)
	assert.Equal(t, UndeterminableToolResponse, out.Response)
}

func TestExecuteCompletionErrorPropagates(t *testing.T) {
	d := New(&stubModel{err: errors.New("transport down")}, "system", tools.Registry())

	_, err := d.Execute(context.Background(), "q")
	assert.ErrorContains(t, err, "transport down")
}

func TestParseSelectionFencedJSON(t *testing.T) {
	name, params, ok := parseSelection("```json\n{\"tool\": \"check_ticket_status\", \"parameters\": {\"id\": \"TKT-000001\"}}\n```")
	require.True(t, ok)
	assert.Equal(t, tools.ToolCheckTicketStatus, name)
	assert.Equal(t, "TKT-000001", params["id"])
}

func TestNormalizeParamsCoercesNonStrings(t *testing.T) {
	params := normalizeParams(tools.ToolCheckTicketStatus, map[string]any{"id": 123456}, "q")
	assert.Equal(t, "123456", params["ticket_id"])
}
