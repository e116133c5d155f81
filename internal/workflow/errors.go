// Package workflow implements the validation-driven task engine: a state
// graph (init → prepare → infer → validate) that loops under bounded retry
// and escalation budgets and never yields a result its validator rejected.
package workflow

import (
	"errors"
	"fmt"

	"github.com/sharanyaa23/DocSense/internal/tasks"
)

// ErrValidationExhausted is returned when model output never satisfied the
// task validator within the retry and escalation budgets.
var ErrValidationExhausted = errors.New("validation exhausted")

// ExhaustedError carries the full attempt history of a run that exhausted
// its budgets, so callers can report which checks failed and why.
type ExhaustedError struct {
	Kind     tasks.Kind
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s: %v", e.Kind, ErrValidationExhausted)
	}
	last := e.Attempts[len(e.Attempts)-1]
	return fmt.Sprintf(
		"%s: %v after %d attempts: %s",
		e.Kind, ErrValidationExhausted, len(e.Attempts), last.Validation.Reason,
	)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrValidationExhausted
}
