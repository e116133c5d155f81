package processing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/internal/loaders"
	"github.com/sharanyaa23/DocSense/internal/tasks"
	"github.com/sharanyaa23/DocSense/internal/workflow"
	"github.com/sharanyaa23/DocSense/pkg/handlers"
	"github.com/sharanyaa23/DocSense/pkg/routes"
)

// Handler provides HTTP endpoints for task processing operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload cap.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "processing"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for task endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/summarize", Handler: h.task(tasks.KindSummarize)},
			{Method: "POST", Pattern: "/extract", Handler: h.task(tasks.KindExtract)},
			{Method: "POST", Pattern: "/classify", Handler: h.task(tasks.KindClassify)},
			{Method: "POST", Pattern: "/convert-json", Handler: h.task(tasks.KindConvertJSON)},
			{Method: "POST", Pattern: "/compare", Handler: h.Compare},
			{Method: "POST", Pattern: "/preview", Handler: h.Preview},
			{Method: "GET", Pattern: "/health", Handler: h.Health},
		},
	}
}

// task builds the handler for a single-document task endpoint: load the
// uploaded file, assemble the request with form options, run the workflow.
func (h *Handler) task(kind tasks.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := h.loadUpload(w, r, "file")
		if !ok {
			return
		}

		req := &tasks.Request{
			Document: doc,
			Options:  optionsFromForm(r),
		}

		result, err := h.sys.Process(r.Context(), kind, req)
		h.respond(w, result, err)
	}
}

// Compare runs the two-document comparison task.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadUpload(w, r, "file")
	if !ok {
		return
	}
	secondary, ok := h.loadUpload(w, r, "file2")
	if !ok {
		return
	}

	req := &tasks.Request{Document: doc, Secondary: secondary}

	result, err := h.sys.Process(r.Context(), tasks.KindCompare, req)
	h.respond(w, result, err)
}

// Preview returns the normalized text of an upload without any inference.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	name, data, ok := h.readUpload(w, r, "file")
	if !ok {
		return
	}

	preview, err := h.sys.Preview(name, data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, preview)
}

// Health reports inference provider reachability: 200 when the provider
// answers, 503 with the probe error otherwise.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.sys.Health(r.Context())
	if !status.Healthy() {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, status)
}

func (h *Handler) respond(w http.ResponseWriter, result *workflow.Result, err error) {
	if err == nil {
		handlers.RespondJSON(w, http.StatusOK, result)
		return
	}

	var exhausted *workflow.ExhaustedError
	if errors.As(err, &exhausted) {
		h.logger.Error("validation exhausted", "task", exhausted.Kind, "attempts", len(exhausted.Attempts))
		handlers.RespondJSON(w, MapHTTPStatus(err), map[string]any{
			"error":    exhausted.Error(),
			"attempts": exhausted.Attempts,
		})
		return
	}

	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}

// loadUpload reads one multipart file field and builds its Document,
// responding with the mapped error on failure.
func (h *Handler) loadUpload(w http.ResponseWriter, r *http.Request, field string) (*documents.Document, bool) {
	name, data, ok := h.readUpload(w, r, field)
	if !ok {
		return nil, false
	}

	loaded, err := loaders.Load(name, data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return loaded, true
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request, field string) (string, []byte, bool) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, fmt.Errorf("%w: %w", ErrInvalidUpload, err))
		return "", nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: missing %q", ErrInvalidUpload, field))
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidUpload, err))
		return "", nil, false
	}

	return header.Filename, data, true
}

// optionsFromForm builds task options from multipart form values. All values
// are comma-separated lists; absent values select task defaults.
func optionsFromForm(r *http.Request) tasks.Options {
	return tasks.Options{
		ExtractTypes:   splitList(r.FormValue("extraction_type")),
		Labels:         splitList(r.FormValue("labels")),
		RequiredFields: splitList(r.FormValue("required_fields")),
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
