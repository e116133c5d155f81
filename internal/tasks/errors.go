package tasks

import "errors"

// ErrInvalidRequest is returned for malformed task requests before any
// inference call is made.
var ErrInvalidRequest = errors.New("invalid task request")
