// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/sharanyaa23/DocSense/internal/config"
	"github.com/sharanyaa23/DocSense/internal/infrastructure"
	"github.com/sharanyaa23/DocSense/pkg/middleware"
	"github.com/sharanyaa23/DocSense/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
