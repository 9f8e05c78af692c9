// Package prompts holds the embedded instruction templates and renders them
// through Eino prompt components so prompt callbacks fire on every render.
package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
)

//go:embed template/system_prompt.txt
var systemPrompt string

//go:embed template/router_prompt.txt
var routerPrompt string

//go:embed template/rag_prompt.txt
var ragPrompt string

//go:embed template/tool_selection_prompt.txt
var toolSelectionPrompt string

// System returns the assistant system prompt with config tokens substituted.
func System(cfg model.PromptConfig) string {
	company := strings.TrimSpace(cfg.CompanyName)
	if company == "" {
		company = "the company"
	}
	return strings.NewReplacer("{company}", company).Replace(systemPrompt)
}

// RenderRouter renders the routing instruction embedding the query.
func RenderRouter(ctx context.Context, query string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.UserMessage(routerPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{"query": query})
	if err != nil {
		return "", fmt.Errorf("router prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("router prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderRAG renders the grounded-answer instruction embedding the query, the
// accumulated context, and the joined section labels.
func RenderRAG(ctx context.Context, query, contextText, sections string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.UserMessage(ragPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"query":    query,
		"context":  contextText,
		"sections": sections,
	})
	if err != nil {
		return "", fmt.Errorf("rag prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("rag prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderToolSelection renders the tool-intent instruction. The template
// carries a literal JSON example, so known tokens are substituted with a
// replacer instead of FString and the result is wrapped through a messages
// placeholder purely to emit prompt callbacks.
func RenderToolSelection(ctx context.Context, query string) (string, error) {
	content := strings.NewReplacer("{QUERY}", query).Replace(toolSelectionPrompt)

	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("tool_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"tool_messages": []*schema.Message{schema.UserMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("tool selection prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("tool selection prompt render: empty result")
	}
	return msgs[0].Content, nil
}
