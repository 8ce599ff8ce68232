package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

const defaultOllamaModel = "phi3:mini"

type ollamaLLMAdapter struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewOllamaLLMAdapter talks to Ollama through its OpenAI-compatible endpoint.
func NewOllamaLLMAdapter(cfg config.Config, log logger.Logger) (service.LLMService, error) {
	if cfg.LLM.OllamaHost == "" {
		return nil, fmt.Errorf("ollama host is not configured")
	}

	clientCfg := openai.DefaultConfig("ollama")
	clientCfg.BaseURL = cfg.LLM.OllamaHost

	model := cfg.LLM.Model
	if model == "" || model == config.DefaultGeminiModel {
		model = defaultOllamaModel
	}

	log.Info("Ollama LLM adapter initialized")
	return &ollamaLLMAdapter{client: openai.NewClientWithConfig(clientCfg), model: model, log: log}, nil
}

func (a *ollamaLLMAdapter) GenerateSuggestion(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Stream: false,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ollama chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no chat choices")
	}

	return resp.Choices[0].Message.Content, nil
}
