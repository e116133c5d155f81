package loaders

import "errors"

// Sentinel errors for document loading.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCorruptFile       = errors.New("file could not be read")
)
