package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/graph"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	"github.com/Nkromin/CustomerCareRAG/internal/agent/repo"
	"github.com/Nkromin/CustomerCareRAG/internal/core"
	"github.com/Nkromin/CustomerCareRAG/internal/index"
	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
	pkgredis "github.com/Nkromin/CustomerCareRAG/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Assistant configs
	Router       model.RouterModelConfig
	Response     model.ResponseModelConfig
	Prompt       model.PromptConfig
	Conversation model.ConversationConfig
	Index        model.IndexConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	policyIndex, err := index.New(envCfg.Index)
	if err != nil {
		log.Fatalf("Failed to build policy index: %v", err)
	}
	defer policyIndex.Close()

	runner, err := graph.BuildAssistantGraph(ctx, graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		RouterModel:      envCfg.Router,
		ResponseModel:    envCfg.Response,
		Prompt:           envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
		Index:            policyIndex,
	})
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Policy question on the medical path",
			query:       "How many sick days do I get per year?",
		},
		{
			description: "Policy question on the vacation path",
			query:       "Can I carry over unused vacation days?",
		},
		{
			description: "Action request handled by a tool",
			query:       "Please create a ticket, my payslip for August is missing",
		},
		{
			description: "Small talk follow-up",
			query:       "Thanks, that was helpful!",
		},
	}

	conversationID := uuid.NewString()

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		result, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          test.query,
		})
		if err != nil {
			log.Fatalf("Failed to invoke graph for test %d: %v", i+1, err)
		}

		fmt.Printf("Category: %s | Route: %s\n", result.QueryCategory, result.RouteDecision)
		if len(result.RetrievedSections) > 0 {
			fmt.Printf("Sections: %v\n", result.RetrievedSections)
		}
		for _, inv := range result.ToolInvocations {
			fmt.Printf("Tool: %s %v\n", inv.Tool, inv.Params)
		}
		fmt.Printf("Response %d: %s\n", i+1, result.Response)
		fmt.Println("────────────────────────────────────────────────")

		// slight delay between tests for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("All assistant queries completed.")
}
