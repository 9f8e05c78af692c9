package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/classify"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/dispatch"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/parsers"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/prompts"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/retrieve"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// Node names used when wiring the graph.
const (
	NodeClassifier        = "Classifier"
	NodeRouterPrompt      = "RouterPrompt"
	NodeRouterModel       = "RouterChatModel"
	NodeRouteParser       = "RouteParser"
	NodeRetriever         = "Retriever"
	NodeToolExecutor      = "ToolExecutor"
	NodeResponseAssembler = "ResponseAssembler"
	NodeResponseModel     = "ResponseChatModel"
	NodeFinalizer         = "Finalizer"
)

// NewClassifierPreHandler seeds the per-invocation state from the public
// input before any node runs.
func NewClassifierPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		s.ConversationID = in.ConversationID
		s.Query = in.Query
		if len(in.History) > 0 {
			s.Transcript = append(s.Transcript, in.History...)
		}
		return in, nil
	}
}

// NewClassifierNode creates the keyword classifier node.
func NewClassifierNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (model.Classification, error) {
		category, boost := classify.Classify(input.Query)
		logx.Debug().
			Str("conversation_id", input.ConversationID).
			Str("category", category.String()).
			Msg("Query classified")
		return model.Classification{
			Query:       input.Query,
			Category:    category,
			BoostPhrase: boost,
		}, nil
	})
}

// NewClassifierPostHandler records the classification in state for the
// retriever and the final result.
func NewClassifierPostHandler() func(context.Context, model.Classification, *model.AppState) (model.Classification, error) {
	return func(ctx context.Context, out model.Classification, state *model.AppState) (model.Classification, error) {
		state.QueryCategory = out.Category
		state.BoostPhrase = out.BoostPhrase
		return out, nil
	}
}

// NewRouterPromptNode renders the routing instruction for the router model.
func NewRouterPromptNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.Classification) ([]*schema.Message, error) {
		content, err := prompts.RenderRouter(ctx, input.Query)
		if err != nil {
			return nil, fmt.Errorf("render router prompt: %w", err)
		}
		return []*schema.Message{schema.UserMessage(content)}, nil
	})
}

// NewRouterModelPostHandler computes and logs usage cost for the router model.
func NewRouterModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return newUsageCostPostHandler(NodeRouterModel, modelName)
}

// NewRouteParserNode maps the raw router answer onto a route decision. The
// parser is total, so this node never fails.
func NewRouteParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (model.RouteDecision, error) {
		decision := parsers.ParseRouteDecision(resp.Content)
		logx.Debug().
			Str("raw", strings.TrimSpace(resp.Content)).
			Str("route", decision.String()).
			Msg("Route decided")
		return decision, nil
	})
}

// NewRouteParserPostHandler records the decision in state.
func NewRouteParserPostHandler() func(context.Context, model.RouteDecision, *model.AppState) (model.RouteDecision, error) {
	return func(ctx context.Context, out model.RouteDecision, state *model.AppState) (model.RouteDecision, error) {
		state.RouteDecision = out
		return out, nil
	}
}

// NewRouteCondition creates the branch condition that fans the pipeline out
// to retrieval, tool dispatch, or direct response composition.
func NewRouteCondition() func(context.Context, model.RouteDecision) (string, error) {
	return func(ctx context.Context, decision model.RouteDecision) (string, error) {
		switch decision {
		case model.RouteRetrieve:
			return NodeRetriever, nil
		case model.RouteTool:
			return NodeToolExecutor, nil
		default:
			return NodeResponseAssembler, nil
		}
	}
}

// NewRetrieverNode runs policy retrieval and stores the formatted context in
// state. The decision passes through unchanged so the assembler sees the same
// input type on every incoming edge.
func NewRetrieverNode(retriever *retrieve.Retriever) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, decision model.RouteDecision) (model.RouteDecision, error) {
		var query, boost string
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			query = state.Query
			boost = state.BoostPhrase
			return nil
		}); err != nil {
			return decision, fmt.Errorf("failed to access state: %w", err)
		}

		contextText, sections := retriever.Retrieve(ctx, query, boost)

		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			state.RetrievedContext = contextText
			state.RetrievedSections = sections
			return nil
		}); err != nil {
			return decision, fmt.Errorf("failed to access state: %w", err)
		}
		return decision, nil
	})
}

// NewToolExecutorNode runs one tool dispatch and emits the outcome text as an
// assistant message so the tool path converges with the model path.
func NewToolExecutorNode(dispatcher *dispatch.Dispatcher) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, decision model.RouteDecision) (*schema.Message, error) {
		var query string
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			query = state.Query
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		outcome, err := dispatcher.Execute(ctx, query)
		if err != nil {
			return nil, err
		}

		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			if outcome.Invocation != nil {
				state.ToolInvocations = append(state.ToolInvocations, *outcome.Invocation)
				state.ToolResults = append(state.ToolResults, outcome.Result)
				// The tool result occupies the same context slot retrieval
				// would have filled; only one of the two paths runs per query.
				state.RetrievedContext = outcome.Result
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		return schema.AssistantMessage(outcome.Response, nil), nil
	})
}

// NewResponseAssemblerNode builds the message context for the response model.
// The retrieval path wraps the query in the grounded answer instruction; the
// general path sends the query as-is after the transcript.
func NewResponseAssemblerNode(promptCfg *model.PromptConfig) *compose.Lambda {
	systemPrompt := prompts.System(*promptCfg)

	return compose.InvokableLambda(func(ctx context.Context, decision model.RouteDecision) ([]*schema.Message, error) {
		var (
			query      string
			transcript []*schema.Message
			docContext string
			sections   []string
		)
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			query = state.Query
			transcript = state.Transcript
			docContext = state.RetrievedContext
			sections = state.RetrievedSections
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		userContent := query
		if decision == model.RouteRetrieve {
			rendered, err := prompts.RenderRAG(ctx, query, docContext, sectionsLabel(docContext, sections))
			if err != nil {
				return nil, fmt.Errorf("render rag prompt: %w", err)
			}
			userContent = rendered
		}

		messages := make([]*schema.Message, 0, len(transcript)+2)
		messages = append(messages, schema.SystemMessage(systemPrompt))
		messages = append(messages, transcript...)
		messages = append(messages, schema.UserMessage(userContent))
		return messages, nil
	})
}

// sectionsLabel joins the retrieved section names for the grounded prompt.
// When retrieval produced no labels the prompt still needs a citation target:
// "policy documents" after a full fallback, "various" when passages matched
// but carried no headings.
func sectionsLabel(docContext string, sections []string) string {
	if len(sections) > 0 {
		return strings.Join(sections, ", ")
	}
	if docContext == retrieve.FallbackContext {
		return "policy documents"
	}
	return "various"
}

// NewResponseModelPostHandler computes and logs usage cost for the response
// model.
func NewResponseModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return newUsageCostPostHandler(NodeResponseModel, modelName)
}

// NewFinalizerNode records the response, extends the transcript with the
// completed exchange, and assembles the public result from state.
func NewFinalizerNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, answer *schema.Message) (*model.Result, error) {
		var result *model.Result
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			state.Response = answer.Content
			state.Transcript = append(state.Transcript,
				schema.UserMessage(state.Query),
				schema.AssistantMessage(answer.Content, nil),
			)
			result = &model.Result{
				Response:          state.Response,
				Transcript:        state.Transcript,
				ToolInvocations:   state.ToolInvocations,
				ToolResults:       state.ToolResults,
				RouteDecision:     state.RouteDecision,
				QueryCategory:     state.QueryCategory,
				RetrievedContext:  state.RetrievedContext,
				RetrievedSections: state.RetrievedSections,
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return result, nil
	})
}

// newUsageCostPostHandler is the shared usage-cost accounting for both chat
// model nodes.
func newUsageCostPostHandler(nodeName, modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if model.CostEnabled() && out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra["usage_cost"] = map[string]any{
				"currency":          "USD",
				"model":             modelName,
				"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
				"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
				"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
				"input_cost":        inC,
				"output_cost":       outC,
				"total_cost":        totalC,
			}
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("node", nodeName).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")
		}
		return out, nil
	}
}
