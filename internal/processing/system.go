// Package processing exposes the document task operations over the workflow
// engine: one endpoint per task kind, a no-inference preview, and a provider
// health probe.
package processing

import (
	"context"
	"log/slog"

	"github.com/sharanyaa23/DocSense/internal/inference"
	"github.com/sharanyaa23/DocSense/internal/loaders"
	"github.com/sharanyaa23/DocSense/internal/tasks"
	"github.com/sharanyaa23/DocSense/internal/workflow"
)

// PreviewRunes caps the text returned by the preview operation.
const PreviewRunes = 5000

// System defines the public contract for task processing operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Process(ctx context.Context, kind tasks.Kind, req *tasks.Request) (*workflow.Result, error)
	Preview(name string, data []byte) (*PreviewResult, error)
	Health(ctx context.Context) *HealthStatus
}

// PreviewResult is the outcome of a preview operation: normalized text
// truncated to the preview budget, with no inference involved.
type PreviewResult struct {
	Preview     string `json:"preview"`
	TotalLength int    `json:"total_length"`
	Truncated   bool   `json:"truncated"`
}

// HealthStatus reports inference provider reachability.
type HealthStatus struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Error    string `json:"error,omitempty"`
}

// Healthy reports whether the provider probe succeeded.
func (h *HealthStatus) Healthy() bool {
	return h.Status == "ok"
}

type system struct {
	rt     *workflow.Runtime
	model  string
	logger *slog.Logger
}

// New creates the processing System over a workflow runtime. The model name
// is reported by health checks.
func New(rt *workflow.Runtime, model string, logger *slog.Logger) System {
	return &system{
		rt:     rt,
		model:  model,
		logger: logger,
	}
}

// Handler creates the HTTP handler for task endpoints.
func (s *system) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

// Process runs the workflow for one task request.
func (s *system) Process(ctx context.Context, kind tasks.Kind, req *tasks.Request) (*workflow.Result, error) {
	return workflow.Execute(ctx, s.rt, kind, req)
}

// Preview loads a file and returns its normalized text truncated to the
// preview budget.
func (s *system) Preview(name string, data []byte) (*PreviewResult, error) {
	doc, err := loaders.Load(name, data)
	if err != nil {
		return nil, err
	}

	runes := []rune(doc.Text)
	preview := doc.Text
	truncated := false
	if len(runes) > PreviewRunes {
		preview = string(runes[:PreviewRunes])
		truncated = true
	}

	return &PreviewResult{
		Preview:     preview,
		TotalLength: doc.Length,
		Truncated:   truncated,
	}, nil
}

// Health probes the inference provider.
func (s *system) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:   "ok",
		Provider: s.rt.Provider.Name(),
		Model:    s.model,
	}

	if err := inference.Ping(ctx, s.rt.Provider); err != nil {
		status.Status = "degraded"
		status.Error = err.Error()
	}

	return status
}
