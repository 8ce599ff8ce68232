package service

import (
	"context"
)

// LLMService returns the raw model reply. Callers decode and validate it.
type LLMService interface {
	GenerateSuggestion(ctx context.Context, prompt string) (string, error)
}
