package workflow

import (
	"log/slog"

	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/internal/inference"
	"github.com/sharanyaa23/DocSense/internal/tasks"
)

// Runtime bundles the dependencies workflow nodes require. It is constructed
// by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Provider inference.Provider
	Tasks    *tasks.Registry
	Engine   Config
	Chunker  documents.Config
	Logger   *slog.Logger
}
