package api

import (
	"github.com/sharanyaa23/DocSense/internal/config"
	"github.com/sharanyaa23/DocSense/internal/infrastructure"
	"github.com/sharanyaa23/DocSense/internal/tasks"
	"github.com/sharanyaa23/DocSense/internal/workflow"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Config *config.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Provider:  infra.Provider,
		},
		Config: cfg,
	}
}

// Workflow builds the workflow runtime shared by all task handlers.
func (r *Runtime) Workflow() *workflow.Runtime {
	return &workflow.Runtime{
		Provider: r.Provider,
		Tasks:    tasks.NewRegistry(r.Config.Alignment.SimilarityThreshold),
		Engine:   r.Config.Engine,
		Chunker:  r.Config.Chunker,
		Logger:   r.Logger,
	}
}
