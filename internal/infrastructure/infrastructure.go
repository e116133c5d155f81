// Package infrastructure provides core service initialization for application
// startup. It assembles common dependencies (logging, lifecycle, the
// inference provider) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sharanyaa23/DocSense/internal/config"
	"github.com/sharanyaa23/DocSense/internal/inference"
	"github.com/sharanyaa23/DocSense/pkg/lifecycle"
)

const startupProbeTimeout = 10 * time.Second

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, and the inference provider.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Provider  inference.Provider
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	provider, err := inference.New(&cfg.Provider, logger)
	if err != nil {
		return nil, fmt.Errorf("provider init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Provider:  provider,
	}, nil
}

// Start registers infrastructure systems with the lifecycle coordinator.
// The provider is probed once at startup; an unreachable provider degrades
// health reporting but does not prevent the service from starting.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnStartup(func() {
		ctx, cancel := context.WithTimeout(i.Lifecycle.Context(), startupProbeTimeout)
		defer cancel()

		if err := inference.Ping(ctx, i.Provider); err != nil {
			i.Logger.Warn("inference provider unreachable at startup", "error", err)
			return
		}
		i.Logger.Info("inference provider reachable", "provider", i.Provider.Name())
	})
	return nil
}
