package alignment

import "errors"

// ErrAlignment is returned when chunk sequences cannot be aligned.
var ErrAlignment = errors.New("alignment failed")
