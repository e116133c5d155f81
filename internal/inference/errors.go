package inference

import "errors"

// Sentinel errors for provider operations.
var (
	ErrProvider        = errors.New("provider call failed")
	ErrProviderTimeout = errors.New("provider call timed out")
)
