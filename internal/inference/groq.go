package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
)

// GroqClient talks to any OpenAI-compatible chat completion endpoint. The
// default configuration targets Groq; pointing BaseURL elsewhere covers
// OpenAI itself and compatible gateways.
type GroqClient struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

// NewGroqClient creates a client from the provider config. The API key is
// resolved from the configured environment variable and must be present.
func NewGroqClient(cfg *Config, logger *slog.Logger) (*GroqClient, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: no api key in %s", ErrProvider, cfg.APIKeyEnv)
	}

	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &GroqClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.TimeoutDuration(),
		logger:      logger.With("provider", cfg.Name, "model", cfg.Model),
	}, nil
}

// Complete sends a single-message chat completion under the per-call timeout.
func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classify(err, c.model)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion from %s", ErrProvider, c.model)
	}

	c.logger.DebugContext(
		ctx, "completion",
		"prompt_bytes", len(prompt),
		"duration", time.Since(start),
	)

	return resp.Choices[0].Message.Content, nil
}

// Name identifies the provider for logging and health reporting.
func (c *GroqClient) Name() string {
	return "groq"
}

// Ping verifies the endpoint is reachable and the credential is accepted.
func (c *GroqClient) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return classify(err, c.model)
	}
	return nil
}

func classify(err error, model string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrProviderTimeout, model, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrProvider, model, err)
}
