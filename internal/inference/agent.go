package inference

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentClient adapts a go-agents agent to the Provider interface, covering
// provider families the OpenAI-compatible client does not (ollama, azure).
// Agents are cheap to construct, so each call builds its own.
type AgentClient struct {
	config  gaconfig.AgentConfig
	name    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewAgentClient builds an AgentClient from the provider config.
func NewAgentClient(cfg *Config, logger *slog.Logger) (*AgentClient, error) {
	options := map[string]any{
		"temperature": cfg.Temperature,
	}
	if key := cfg.APIKey(); key != "" {
		options["token"] = key
	}

	agentCfg := gaconfig.AgentConfig{
		Name: "docsense",
		Provider: &gaconfig.ProviderConfig{
			Name:    cfg.Name,
			BaseURL: cfg.BaseURL,
			Options: options,
		},
		Model: &gaconfig.ModelConfig{
			Name: cfg.Model,
		},
	}

	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(&agentCfg)

	return &AgentClient{
		config:  defaults,
		name:    cfg.Name,
		timeout: cfg.TimeoutDuration(),
		logger:  logger.With("provider", cfg.Name, "model", cfg.Model),
	}, nil
}

// Complete sends the prompt as a chat request under the per-call timeout.
func (c *AgentClient) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	a, err := agent.New(&c.config)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrProvider, err)
	}

	start := time.Now()
	resp, err := a.Chat(callCtx, prompt)
	if err != nil {
		return "", classify(err, c.config.Model.Name)
	}

	c.logger.DebugContext(
		ctx, "completion",
		"prompt_bytes", len(prompt),
		"duration", time.Since(start),
	)

	return resp.Content(), nil
}

// Name identifies the provider for logging and health reporting.
func (c *AgentClient) Name() string {
	return c.name
}
