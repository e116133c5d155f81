package api

import (
	"net/http"

	"github.com/sharanyaa23/DocSense/internal/config"
	"github.com/sharanyaa23/DocSense/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Processing.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)
}
