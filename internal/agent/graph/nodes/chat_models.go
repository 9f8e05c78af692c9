package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey     string
	BaseURL    string
	RouterCfg  *model.RouterModelConfig
	RespConfig *model.ResponseModelConfig
}

// ChatModels holds both router and response chat models. Fields are the
// component interface so tests can substitute stub models.
type ChatModels struct {
	Router            einomodel.BaseChatModel
	Response          einomodel.BaseChatModel
	RouterModelName   string
	ResponseModelName string
}

// NewChatModels creates the router and response chat models sharing one
// Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModelRouter, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RouterCfg.Model,
		Temperature: &config.RouterCfg.Temperature,
		MaxTokens:   &config.RouterCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating router model")
		return nil, fmt.Errorf("error creating router model: %w", err)
	}

	chatModelResponse, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RespConfig.Model,
		Temperature: &config.RespConfig.Temperature,
		MaxTokens:   &config.RespConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}

	return &ChatModels{
		Router:            chatModelRouter,
		Response:          chatModelResponse,
		RouterModelName:   config.RouterCfg.Model,
		ResponseModelName: config.RespConfig.Model,
	}, nil
}
