package documents

import "errors"

// Domain errors for document preparation.
var (
	ErrEmptyDocument = errors.New("document has no extractable text")
	ErrChunking      = errors.New("chunking failed")
)
