// Package tasks defines the five document task implementations and the
// capability set the workflow engine drives them through. Each task supplies
// prepare, prompt, validate, and finalize behavior; extraction adds a
// deterministic analyzer and fan-out merging, comparison adds alignment
// analysis and an identical-document short circuit.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sharanyaa23/DocSense/internal/documents"
)

// Kind identifies a task type.
type Kind string

// Task kinds.
const (
	KindSummarize   Kind = "summarize"
	KindExtract     Kind = "extract"
	KindClassify    Kind = "classify"
	KindConvertJSON Kind = "convert_json"
	KindCompare     Kind = "compare"
)

// ParseKind resolves a kind from its string form.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSummarize:
		return KindSummarize, nil
	case KindExtract:
		return KindExtract, nil
	case KindClassify:
		return KindClassify, nil
	case KindConvertJSON:
		return KindConvertJSON, nil
	case KindCompare:
		return KindCompare, nil
	}
	return "", fmt.Errorf("%w: unknown task kind %q", ErrInvalidRequest, s)
}

// Request is one task invocation: a primary document, an optional secondary
// document for comparison, and per-kind options.
type Request struct {
	Document  *documents.Document `json:"document"`
	Secondary *documents.Document `json:"secondary,omitempty"`
	Options   Options             `json:"options"`
}

// Options carries per-kind request parameters. Zero values select defaults.
type Options struct {
	ExtractTypes   []string `json:"extract_types,omitempty"`
	Labels         []string `json:"labels,omitempty"`
	RequiredFields []string `json:"required_fields,omitempty"`
}

// ValidationResult is the outcome of one deterministic validation pass.
// Hint feeds the next prompt on retry; Escalate requests broadened context
// instead of a plain retry.
type ValidationResult struct {
	Passed   bool   `json:"passed"`
	Reason   string `json:"reason,omitempty"`
	Hint     string `json:"hint,omitempty"`
	Escalate bool   `json:"escalate,omitempty"`
}

// Run carries the state of one task execution. The engine populates it at
// Init and mutates Hint, Escalated, Attempt, and Selected as the run moves
// through its states; capabilities only read it.
type Run struct {
	Request         *Request
	Chunks          []documents.Chunk
	SecondaryChunks []documents.Chunk
	Selected        []documents.Chunk
	Analysis        any
	Hint            string
	Escalated       bool
	Attempt         int
}

// Plan is the outcome of Prepare: the chunk subset inference will see, and
// whether prompts fan out per chunk.
type Plan struct {
	Chunks []documents.Chunk
	FanOut bool
}

// Indices returns the chunk indices of the plan in order.
func (p *Plan) Indices() []int {
	indices := make([]int, len(p.Chunks))
	for i, c := range p.Chunks {
		indices[i] = c.Index
	}
	return indices
}

// Task is the capability set every task kind implements.
type Task interface {
	Kind() Kind
	Prepare(run *Run) (*Plan, error)
	BuildPrompt(run *Run, chunk *documents.Chunk) (string, error)
	Validate(run *Run, output string) ValidationResult
	Finalize(run *Run, output string) (any, error)
}

// Analyzer is an optional capability: deterministic pre-inference analysis
// whose result is stored on the run before the first Prepare.
type Analyzer interface {
	Analyze(ctx context.Context, run *Run) (any, error)
}

// Merger is an optional capability for fan-out tasks: combine per-chunk
// outputs, already ordered by chunk index, into one output for validation.
type Merger interface {
	Merge(outputs []string) (string, error)
}

// ShortCircuiter is an optional capability: produce a final result directly
// from analysis, skipping inference entirely.
type ShortCircuiter interface {
	ShortCircuit(run *Run) (any, bool)
}

// Registry maps task kinds to their implementations.
type Registry struct {
	tasks map[Kind]Task
}

// NewRegistry builds the full task set. The similarity threshold feeds the
// comparison task's alignment engine; zero selects the default.
func NewRegistry(similarityThreshold float64) *Registry {
	return &Registry{
		tasks: map[Kind]Task{
			KindSummarize:   Summarize{},
			KindExtract:     Extract{},
			KindClassify:    Classify{},
			KindConvertJSON: ConvertJSON{},
			KindCompare:     Compare{Threshold: similarityThreshold},
		},
	}
}

// Get returns the task implementation for kind.
func (r *Registry) Get(kind Kind) (Task, error) {
	task, ok := r.tasks[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown task kind %q", ErrInvalidRequest, kind)
	}
	return task, nil
}

// Kinds returns the registered kinds in stable order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.tasks))
	for k := range r.tasks {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ValidateRequest checks request shape before any chunking or inference.
func ValidateRequest(kind Kind, req *Request) error {
	if req == nil || req.Document == nil {
		return fmt.Errorf("%w: no document provided", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Document.Text) == "" {
		return fmt.Errorf("%w: document %s is empty", ErrInvalidRequest, req.Document.Name)
	}

	if kind == KindCompare {
		if req.Secondary == nil {
			return fmt.Errorf("%w: comparison requires a second document", ErrInvalidRequest)
		}
		if strings.TrimSpace(req.Secondary.Text) == "" {
			return fmt.Errorf("%w: document %s is empty", ErrInvalidRequest, req.Secondary.Name)
		}
	} else if req.Secondary != nil {
		return fmt.Errorf("%w: %s accepts a single document", ErrInvalidRequest, kind)
	}

	if kind == KindExtract {
		if _, err := resolveExtractTypes(req.Options.ExtractTypes); err != nil {
			return err
		}
	}

	for _, label := range req.Options.Labels {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("%w: empty classification label", ErrInvalidRequest)
		}
	}
	for _, field := range req.Options.RequiredFields {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("%w: empty required field name", ErrInvalidRequest)
		}
	}

	return nil
}

// subsetLimit bounds how many chunks a representative subset carries before
// escalation broadens it to the full document.
const subsetLimit = 6

// selectSubset picks the chunks inference will see. Small documents and
// escalated runs use everything; otherwise the subset keeps the first and
// last chunks plus the middle chunks densest in informative words, restored
// to chunk-index order.
func selectSubset(chunks []documents.Chunk, escalated bool) []documents.Chunk {
	if escalated || len(chunks) <= subsetLimit {
		return chunks
	}

	middle := make([]documents.Chunk, len(chunks)-2)
	copy(middle, chunks[1:len(chunks)-1])
	sort.SliceStable(middle, func(i, j int) bool {
		di, dj := keywordDensity(middle[i].Text), keywordDensity(middle[j].Text)
		if di != dj {
			return di > dj
		}
		return middle[i].Index < middle[j].Index
	})

	selected := append([]documents.Chunk{chunks[0]}, middle[:subsetLimit-2]...)
	selected = append(selected, chunks[len(chunks)-1])
	sort.Slice(selected, func(i, j int) bool { return selected[i].Index < selected[j].Index })
	return selected
}

// keywordDensity scores a chunk by the share of its words that are
// informative (four or more runes).
func keywordDensity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	informative := 0
	for _, w := range words {
		if len([]rune(w)) >= 4 {
			informative++
		}
	}
	return float64(informative) / float64(len(words))
}

// joinChunkText concatenates chunk texts up to a rune budget, cutting at a
// chunk boundary so partial chunks never reach a prompt.
func joinChunkText(chunks []documents.Chunk, budget int) string {
	var sb strings.Builder
	used := 0
	for i, c := range chunks {
		runes := len([]rune(c.Text))
		if i > 0 && used+runes > budget {
			break
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(c.Text)
		used += runes
	}
	return sb.String()
}
