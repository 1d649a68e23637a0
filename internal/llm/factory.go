package llm

import (
	"context"
	"fmt"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and audit middleware.
func NewProvider(ctx context.Context, cfg Config, audit store.AuditLog, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → audit → base
	audited := WithAudit(base, audit, log)
	retried := WithRetry(audited, cfg.Retry)

	return retried, nil
}
