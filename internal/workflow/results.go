package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/sharanyaa23/DocSense/internal/tasks"
)

// Attempt strategies, recorded per inference round.
const (
	StrategyInitial  = "initial"
	StrategyRetry    = "retry"
	StrategyEscalate = "escalate"
)

// Attempt records one inference round and its validation outcome. The
// attempt sequence is append-only; prior attempts are never mutated.
type Attempt struct {
	Number     int                    `json:"number"`
	Strategy   string                 `json:"strategy"`
	Chunks     []int                  `json:"chunks"`
	Output     string                 `json:"output"`
	Validation tasks.ValidationResult `json:"validation"`
}

// Result is the accepted outcome of one workflow run: the task's typed value
// plus the full attempt history and loop counters.
type Result struct {
	Kind        tasks.Kind `json:"kind"`
	DocumentID  uuid.UUID  `json:"document_id"`
	Value       any        `json:"value"`
	Attempts    []Attempt  `json:"attempts"`
	Retries     int        `json:"retries"`
	Escalations int        `json:"escalations"`
	CompletedAt time.Time  `json:"completed_at"`
}
