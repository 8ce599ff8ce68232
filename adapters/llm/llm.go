package llm

import (
	"context"
	"fmt"

	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

// New picks the adapter named by llm.provider. It returns nil, nil when the chosen
// provider has no credentials so the server can run without suggestions.
func New(ctx context.Context, cfg config.Config, log logger.Logger) (service.LLMService, error) {
	switch cfg.LLM.Provider {
	case "gemini", "":
		if cfg.LLM.GeminiAPIKey == "" {
			return nil, nil
		}
		return NewGeminiLLMAdapter(ctx, cfg, log)
	case "ollama":
		if cfg.LLM.OllamaHost == "" {
			return nil, nil
		}
		return NewOllamaLLMAdapter(cfg, log)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
