package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

type geminiLLMAdapter struct {
	client *genai.Client
	model  string
	log    logger.Logger
}

func NewGeminiLLMAdapter(ctx context.Context, cfg config.Config, log logger.Logger) (service.LLMService, error) {
	if cfg.LLM.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.LLM.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.LLM.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}

	log.Info("Gemini LLM adapter initialized")
	return &geminiLLMAdapter{client: client, model: model, log: log}, nil
}

var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {
			Type:        genai.TypeString,
			Description: "Suggestions for aligning the proposal with community interests.",
		},
		"revised_proposal": {
			Type:        genai.TypeString,
			Description: "The proposal rewritten to apply the suggestions.",
		},
	},
	Required: []string{"suggestions", "revised_proposal"},
}

func (a *geminiLLMAdapter) GenerateSuggestion(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   suggestionSchema,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty reply")
	}
	return text, nil
}
