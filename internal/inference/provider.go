package inference

import (
	"fmt"
	"log/slog"
)

// New builds the configured provider wrapped with transient-failure retry
// and the shared concurrency gate. Provider names groq and openai use the
// OpenAI-compatible client; any other name rides the go-agents client.
func New(cfg *Config, logger *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Name {
	case "groq", "openai":
		base, err = NewGroqClient(cfg, logger)
	default:
		base, err = NewAgentClient(cfg, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Name, err)
	}

	p := WithRetry(base, cfg.Retries, cfg.RetryBackoffDuration(), logger)
	return WithGate(p, cfg.MaxConcurrent), nil
}
