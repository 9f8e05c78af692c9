// Package dispatch selects and invokes HR action tools from a free-text
// intent. Selection failures are soft: the dispatcher always produces a
// response text so the conversation can continue; only completion-service and
// tool-invocation errors propagate.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/prompts"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/tools"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// Soft-failure response texts. These surface to the employee as the final
// answer on the tool path, so they stay descriptive rather than technical.
const (
	UndeterminableToolResponse = "Could not determine appropriate tool"
	UnknownToolResponse        = "Tool not found"
)

// CurrentUserSentinel stands in for a missing employee identifier; the
// original query is never used as an identifier.
const CurrentUserSentinel = "current_user"

// paramSpec declares how one canonical tool parameter is resolved from the
// model's heterogeneous field names: first non-empty alias wins, in order.
type paramSpec struct {
	canonical     string
	aliases       []string
	queryFallback bool   // fill with the original query when unresolved
	defaultValue  string // fill with this sentinel when unresolved
}

var toolParams = map[string][]paramSpec{
	tools.ToolCreateHRTicket: {
		{canonical: "issue", aliases: []string{"issue", "subject", "description", "query"}, queryFallback: true},
	},
	tools.ToolCheckLeaveBalance: {
		{canonical: "employee_id", aliases: []string{"employee_id", "user_id"}, defaultValue: CurrentUserSentinel},
	},
	tools.ToolCheckTicketStatus: {
		{canonical: "ticket_id", aliases: []string{"ticket_id", "id"}},
	},
}

// fallbackOrder is the fixed priority for substring matching when the model's
// answer is not parseable as JSON.
var fallbackOrder = []string{
	tools.ToolCreateHRTicket,
	tools.ToolCheckLeaveBalance,
	tools.ToolCheckTicketStatus,
}

// Outcome is one dispatch result. Invocation is nil and Result empty when no
// tool ran; Response is always non-empty.
type Outcome struct {
	Invocation *model.ToolInvocation
	Result     string
	Response   string
}

// Dispatcher extracts a tool intent via the completion model and executes the
// selected tool with normalized parameters.
type Dispatcher struct {
	llm          einomodel.BaseChatModel
	systemPrompt string
	registry     map[string]tool.InvokableTool
}

func New(llm einomodel.BaseChatModel, systemPrompt string, registry map[string]tool.InvokableTool) *Dispatcher {
	return &Dispatcher{
		llm:          llm,
		systemPrompt: systemPrompt,
		registry:     registry,
	}
}

// Execute runs one dispatch for the query. A returned error means the
// completion call or the tool invocation itself failed; every selection
// problem resolves to a soft Outcome instead.
func (d *Dispatcher) Execute(ctx context.Context, query string) (*Outcome, error) {
	promptText, err := prompts.RenderToolSelection(ctx, query)
	if err != nil {
		return nil, err
	}

	out, err := d.llm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(d.systemPrompt),
		schema.UserMessage(promptText),
	})
	if err != nil {
		return nil, fmt.Errorf("tool selection completion: %w", err)
	}

	name, params, ok := parseSelection(out.Content)
	if !ok {
		return d.fallbackByName(ctx, out.Content, query)
	}

	if _, exists := d.registry[name]; !exists {
		logx.Warn().Str("tool", name).Msg("Model selected an undeclared tool")
		return &Outcome{Response: UnknownToolResponse}, nil
	}

	normalized := normalizeParams(name, params, query)
	return d.invoke(ctx, name, normalized)
}

// fallbackByName scans the raw model answer for known tool names in priority
// order and invokes the first hit with its minimal default parameters.
func (d *Dispatcher) fallbackByName(ctx context.Context, content, query string) (*Outcome, error) {
	logx.Debug().Msg("Tool selection not parseable as JSON, falling back to name matching")

	lc := strings.ToLower(content)
	for _, name := range fallbackOrder {
		if !strings.Contains(lc, name) {
			continue
		}
		return d.invoke(ctx, name, fallbackParams(name, query))
	}

	logx.Warn().Msg("No known tool name found in selection response")
	return &Outcome{Response: UndeterminableToolResponse}, nil
}

func (d *Dispatcher) invoke(ctx context.Context, name string, params map[string]string) (*Outcome, error) {
	tl := d.registry[name]

	args, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal %s parameters: %w", name, err)
	}

	logx.Debug().Str("tool", name).RawJSON("params", args).Msg("Invoking tool")

	result, err := tl.InvokableRun(ctx, string(args))
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", name, err)
	}

	return &Outcome{
		Invocation: &model.ToolInvocation{Tool: name, Params: params},
		Result:     result,
		Response:   result,
	}, nil
}

// parseSelection extracts {"tool": ..., "parameters": {...}} from the model
// answer, tolerating fenced code blocks and surrounding prose. A parse that
// yields no tool name counts as a failure so the name-matching fallback runs.
func parseSelection(content string) (string, map[string]any, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", nil, false
	}

	var sel struct {
		Tool       string         `json:"tool"`
		Parameters map[string]any `json:"parameters"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &sel); err != nil {
		return "", nil, false
	}

	name := strings.TrimSpace(sel.Tool)
	if name == "" {
		return "", nil, false
	}
	return name, sel.Parameters, true
}

// normalizeParams resolves the tool's canonical parameters from whatever
// field names the model produced, in declared alias priority order.
func normalizeParams(name string, raw map[string]any, query string) map[string]string {
	normalized := make(map[string]string)

	for _, spec := range toolParams[name] {
		value := ""
		for _, alias := range spec.aliases {
			if v, ok := raw[alias]; ok {
				if s := strings.TrimSpace(coerceString(v)); s != "" {
					value = s
					break
				}
			}
		}
		if value == "" && spec.queryFallback {
			value = query
		}
		if value == "" {
			value = spec.defaultValue
		}
		if value != "" {
			normalized[spec.canonical] = value
		}
	}

	return normalized
}

// fallbackParams is the minimal default parameter set used when the tool was
// recognized by name only.
func fallbackParams(name, query string) map[string]string {
	switch name {
	case tools.ToolCreateHRTicket:
		return map[string]string{"issue": query}
	case tools.ToolCheckLeaveBalance:
		return map[string]string{"employee_id": CurrentUserSentinel}
	default:
		return map[string]string{}
	}
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
