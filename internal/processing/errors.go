package processing

import (
	"errors"
	"net/http"

	"github.com/sharanyaa23/DocSense/internal/alignment"
	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/internal/inference"
	"github.com/sharanyaa23/DocSense/internal/loaders"
	"github.com/sharanyaa23/DocSense/internal/tasks"
	"github.com/sharanyaa23/DocSense/internal/workflow"
)

// ErrInvalidUpload is returned when a request is missing its file part.
var ErrInvalidUpload = errors.New("invalid or missing file upload")

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, tasks.ErrInvalidRequest),
		errors.Is(err, loaders.ErrUnsupportedFormat),
		errors.Is(err, loaders.ErrCorruptFile),
		errors.Is(err, ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, documents.ErrEmptyDocument),
		errors.Is(err, documents.ErrChunking),
		errors.Is(err, workflow.ErrValidationExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inference.ErrProviderTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, inference.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, alignment.ErrAlignment):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
