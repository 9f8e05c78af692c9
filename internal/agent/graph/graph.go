package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/conversations"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/dispatch"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/nodes"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/observers"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/prompts"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/retrieve"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph/tools"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// Runner executes the compiled pipeline for one query. Pipeline failures are
// absorbed into an apologetic Result so a conversation never dies on an
// internal error; the error return is reserved for invalid input.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (*model.Result, error)
}

// Config holds everything needed to compose the full assistant end-to-end.
// This is a convenience layer over GraphConfig that also constructs the chat
// models and the transcript manager.
type Config struct {
	APIKey           string
	BaseURL          string
	RouterModel      model.RouterModelConfig
	ResponseModel    model.ResponseModelConfig
	Prompt           model.PromptConfig
	Conversation     model.ConversationConfig
	ConversationRepo model.ConversationRepository
	Index            model.DocumentIndex
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels *nodes.ChatModels
	Prompt     *model.PromptConfig
	Index      model.DocumentIndex
}

// GraphBuilder handles the construction of the assistant pipeline graph
type GraphBuilder struct {
	config     *GraphConfig
	dispatcher *dispatch.Dispatcher
	retriever  *retrieve.Retriever
	graph      *compose.Graph[model.QueryInput, *model.Result]
}

type graphRunner struct {
	runnable    compose.Runnable[model.QueryInput, *model.Result]
	transcripts *conversations.TranscriptManager
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (*model.Result, error) {
	if in.Query == "" {
		return nil, fmt.Errorf("query is empty")
	}

	// Load the persisted transcript unless the caller supplied one.
	if len(in.History) == 0 && r.transcripts != nil && in.ConversationID != "" {
		history, err := r.transcripts.LoadTranscript(ctx, in.ConversationID)
		if err != nil {
			logx.Warn().
				Str("conversation_id", in.ConversationID).
				Err(err).
				Msg("Failed to load transcript, starting fresh")
		} else {
			in.History = history
		}
	}

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		logx.Error().
			Str("conversation_id", in.ConversationID).
			Err(err).
			Msg("Pipeline failed")
		out = apologyResult(in, err)
	}

	if r.transcripts != nil && in.ConversationID != "" {
		if err := r.transcripts.SaveExchange(ctx, in.ConversationID, in.Query, out.Response); err != nil {
			logx.Error().
				Str("conversation_id", in.ConversationID).
				Err(err).
				Msg("Failed to persist exchange")
		}
	}

	return out, nil
}

// BuildAssistantGraph composes chat models and the transcript manager, builds
// the graph, and returns a Runner.
func BuildAssistantGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Index == nil {
		return nil, fmt.Errorf("document index is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		RouterCfg:  &cfg.RouterModel,
		RespConfig: &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels: cms,
		Prompt:     &cfg.Prompt,
		Index:      cfg.Index,
	})
	if err != nil {
		return nil, err
	}

	var tm *conversations.TranscriptManager
	if cfg.ConversationRepo != nil {
		tm = conversations.NewTranscriptManager(cfg.ConversationRepo, cfg.Conversation)
	}

	logx.Debug().Msg("Assistant graph built successfully")
	return &graphRunner{runnable: runnable, transcripts: tm}, nil
}

// BuildGraph constructs and returns the compiled assistant graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *model.Result], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Router == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.Prompt == nil {
		return nil, fmt.Errorf("prompt config is nil")
	}
	if config.Index == nil {
		return nil, fmt.Errorf("document index is nil")
	}
	if err := validateToolRegistry(ctx); err != nil {
		return nil, err
	}

	builder := &GraphBuilder{
		config:     config,
		dispatcher: dispatch.New(config.ChatModels.Router, prompts.System(*config.Prompt), tools.Registry()),
		retriever:  retrieve.New(config.Index),
		graph: compose.NewGraph[model.QueryInput, *model.Result](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// validateToolRegistry collects every declared tool's ToolInfo at build time
// and checks it against the registry, so a rename on either side fails graph
// construction instead of a live dispatch.
func validateToolRegistry(ctx context.Context) error {
	infos, err := tools.GetToolInfos(ctx, tools.GetHRTools())
	if err != nil {
		logx.Error().Err(err).Msg("Failed to collect tool infos")
		return fmt.Errorf("collect tool infos: %w", err)
	}

	registry := tools.Registry()
	for _, info := range infos {
		if _, ok := registry[info.Name]; !ok {
			return fmt.Errorf("tool %q missing from registry", info.Name)
		}
	}
	if len(infos) != len(registry) {
		return fmt.Errorf("tool registry mismatch: %d infos, %d entries", len(infos), len(registry))
	}
	return nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeClassifier,
		nodes.NewClassifierNode(),
		compose.WithStatePreHandler(nodes.NewClassifierPreHandler()),
		compose.WithStatePostHandler(nodes.NewClassifierPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeRouterPrompt,
		nodes.NewRouterPromptNode(),
	)

	b.graph.AddChatModelNode(nodes.NodeRouterModel,
		b.config.ChatModels.Router,
		compose.WithStatePostHandler(nodes.NewRouterModelPostHandler(b.config.ChatModels.RouterModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeRouteParser,
		nodes.NewRouteParserNode(),
		compose.WithStatePostHandler(nodes.NewRouteParserPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeRetriever,
		nodes.NewRetrieverNode(b.retriever),
	)

	b.graph.AddLambdaNode(nodes.NodeToolExecutor,
		nodes.NewToolExecutorNode(b.dispatcher),
	)

	b.graph.AddLambdaNode(nodes.NodeResponseAssembler,
		nodes.NewResponseAssemblerNode(b.config.Prompt),
	)

	b.graph.AddChatModelNode(nodes.NodeResponseModel,
		b.config.ChatModels.Response,
		compose.WithStatePostHandler(nodes.NewResponseModelPostHandler(b.config.ChatModels.ResponseModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeFinalizer,
		nodes.NewFinalizerNode(),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeClassifier},
		{nodes.NodeClassifier, nodes.NodeRouterPrompt},
		{nodes.NodeRouterPrompt, nodes.NodeRouterModel},
		{nodes.NodeRouterModel, nodes.NodeRouteParser},
		{nodes.NodeRetriever, nodes.NodeResponseAssembler},
		{nodes.NodeResponseAssembler, nodes.NodeResponseModel},
		{nodes.NodeResponseModel, nodes.NodeFinalizer},
		{nodes.NodeToolExecutor, nodes.NodeFinalizer},
		{nodes.NodeFinalizer, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the route fan-out after the parser
func (b *GraphBuilder) addBranches() error {
	routeBranch := compose.NewGraphBranch(
		nodes.NewRouteCondition(),
		map[string]bool{
			nodes.NodeRetriever:         true,
			nodes.NodeToolExecutor:      true,
			nodes.NodeResponseAssembler: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeRouteParser, routeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding route branch")
		return fmt.Errorf("error adding route branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *model.Result], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

// apologyResult wraps a pipeline error into a degraded but well-formed
// result: an apologetic answer, the completed exchange in the transcript, the
// general category, and no route decision.
func apologyResult(in model.QueryInput, err error) *model.Result {
	response := fmt.Sprintf("I apologize, but I encountered an error: %v", err)
	transcript := make([]*schema.Message, 0, len(in.History)+2)
	transcript = append(transcript, in.History...)
	transcript = append(transcript,
		schema.UserMessage(in.Query),
		schema.AssistantMessage(response, nil),
	)
	return &model.Result{
		Response:      response,
		Transcript:    transcript,
		QueryCategory: model.CategoryGeneral,
	}
}
