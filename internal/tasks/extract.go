package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/pkg/formatting"
)

// Extraction types resolved by deterministic patterns.
const (
	TypeEmails  = "emails"
	TypeDates   = "dates"
	TypePhones  = "phone_numbers"
	TypeAmounts = "amounts"
)

// Extraction types resolved by inference.
const (
	TypeNames    = "names"
	TypeKeywords = "keywords"
)

var extractOrder = []string{
	TypeEmails, TypeDates, TypePhones, TypeAmounts, TypeNames, TypeKeywords,
}

var extractPatterns = map[string][]*regexp.Regexp{
	TypeEmails: {
		regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	},
	TypeDates: {
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}[/.]\d{1,2}[/.]\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}\b`),
	},
	TypePhones: {
		regexp.MustCompile(`\+\d{1,3}[\s.-]?\(?\d{1,4}\)?(?:[\s.-]?\d{2,4}){2,3}`),
		regexp.MustCompile(`\(?\d{3}\)?[\s.-]\d{3}[\s.-]\d{4}`),
	},
	TypeAmounts: {
		regexp.MustCompile(`[$€£]\s?\d[\d,]*(?:\.\d+)?`),
		regexp.MustCompile(`(?i)\b\d[\d,]*(?:\.\d+)?\s?(?:usd|eur|gbp|dollars|euros|pounds)\b`),
	},
}

// Extract pulls typed items out of a document. Pattern types (emails, dates,
// phone numbers, amounts) are seeded deterministically by the analyzer;
// model types (names, keywords) come from inference, fanned out per chunk
// for large documents and merged in chunk-index order. Every model item must
// occur in the source text.
type Extract struct{}

type extractAnalysis struct {
	Types      []string
	ModelTypes []string
	Patterns   map[string][]string
}

// Kind identifies the task.
func (Extract) Kind() Kind {
	return KindExtract
}

// Analyze resolves the requested extraction types and seeds the pattern
// types from the source text, deterministically and before any inference.
func (Extract) Analyze(ctx context.Context, run *Run) (any, error) {
	types, err := resolveExtractTypes(run.Request.Options.ExtractTypes)
	if err != nil {
		return nil, err
	}

	analysis := &extractAnalysis{
		Types:    types,
		Patterns: make(map[string][]string),
	}

	for _, t := range types {
		patterns, ok := extractPatterns[t]
		if !ok {
			analysis.ModelTypes = append(analysis.ModelTypes, t)
			continue
		}
		analysis.Patterns[t] = matchPatterns(run.Request.Document.Text, patterns)
	}

	return analysis, nil
}

// ShortCircuit finishes the run without inference when every requested type
// is pattern-seeded.
func (e Extract) ShortCircuit(run *Run) (any, bool) {
	analysis, ok := run.Analysis.(*extractAnalysis)
	if !ok || len(analysis.ModelTypes) > 0 {
		return nil, false
	}
	return e.buildResult(analysis, nil), true
}

// Prepare selects the chunk subset and fans out per chunk when more than one
// chunk is in play.
func (Extract) Prepare(run *Run) (*Plan, error) {
	chunks := selectSubset(run.Chunks, run.Escalated)
	return &Plan{Chunks: chunks, FanOut: len(chunks) > 1}, nil
}

// BuildPrompt composes the extraction prompt for one chunk (fan-out) or the
// whole selection.
func (Extract) BuildPrompt(run *Run, chunk *documents.Chunk) (string, error) {
	analysis, ok := run.Analysis.(*extractAnalysis)
	if !ok {
		return "", fmt.Errorf("%w: extract analysis missing", ErrInvalidRequest)
	}

	var sb strings.Builder
	sb.WriteString(extractSpec)
	sb.WriteString("\n\nRequested types: ")
	sb.WriteString(strings.Join(analysis.ModelTypes, ", "))

	if run.Hint != "" {
		sb.WriteString("\n\nA prior attempt failed review: ")
		sb.WriteString(run.Hint)
	}

	sb.WriteString("\n\nDocument:\n\n")
	if chunk != nil {
		sb.WriteString(chunk.Text)
	} else {
		sb.WriteString(joinChunkText(run.Selected, textBudget(run.Escalated)))
	}
	return sb.String(), nil
}

// Merge unions per-chunk extraction maps, preserving first-occurrence order
// across chunks. Unparseable fragments are dropped; when nothing parses the
// first raw output is passed through so validation produces the repair hint.
func (Extract) Merge(outputs []string) (string, error) {
	merged := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	parsed := 0

	for _, out := range outputs {
		items, err := formatting.Parse[map[string][]string](out)
		if err != nil {
			continue
		}
		parsed++

		for key, values := range items {
			if seen[key] == nil {
				seen[key] = make(map[string]struct{})
				merged[key] = []string{}
			}
			for _, v := range values {
				norm := normalizeSpace(v)
				if _, ok := seen[key][norm]; ok || norm == "" {
					continue
				}
				seen[key][norm] = struct{}{}
				merged[key] = append(merged[key], v)
			}
		}
	}

	if parsed == 0 {
		if len(outputs) == 0 {
			return "", fmt.Errorf("no outputs to merge")
		}
		return outputs[0], nil
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return "", fmt.Errorf("marshal merged extraction: %w", err)
	}
	return string(data), nil
}

// Validate parses the model output and rejects hallucinated items: every
// extracted value must occur in the source text under normalized matching.
// Missing requested types are retryable.
func (Extract) Validate(run *Run, output string) ValidationResult {
	analysis, ok := run.Analysis.(*extractAnalysis)
	if !ok {
		return ValidationResult{Reason: "extract analysis missing"}
	}

	items, err := formatting.Parse[map[string][]string](output)
	if err != nil {
		return ValidationResult{
			Reason: "output is not a JSON object of string arrays",
			Hint:   "Respond with a single JSON object mapping each requested type to an array of strings.",
		}
	}

	for _, t := range analysis.ModelTypes {
		if _, ok := items[t]; !ok {
			return ValidationResult{
				Reason: fmt.Sprintf("missing extraction type: %s", t),
				Hint:   fmt.Sprintf("Include the key %q with an array value, empty if nothing was found.", t),
			}
		}
	}

	source := run.Request.Document.Text
	var hallucinated []string
	for _, t := range analysis.ModelTypes {
		for _, item := range items[t] {
			if !occursIn(source, item) {
				hallucinated = append(hallucinated, item)
			}
		}
	}

	if len(hallucinated) > 0 {
		return ValidationResult{
			Reason: fmt.Sprintf("hallucinated items not present in source: %s", strings.Join(hallucinated, ", ")),
			Hint: fmt.Sprintf(
				"These items do not appear in the document and must be removed: %s. Extract only text that occurs verbatim in the document.",
				strings.Join(hallucinated, ", "),
			),
		}
	}

	return ValidationResult{Passed: true}
}

// Finalize merges pattern-seeded and model-extracted items into the typed
// result.
func (e Extract) Finalize(run *Run, output string) (any, error) {
	analysis, ok := run.Analysis.(*extractAnalysis)
	if !ok {
		return nil, fmt.Errorf("%w: extract analysis missing", ErrInvalidRequest)
	}

	items, err := formatting.Parse[map[string][]string](output)
	if err != nil {
		return nil, fmt.Errorf("parse validated extraction output: %w", err)
	}

	return e.buildResult(analysis, items), nil
}

func (Extract) buildResult(analysis *extractAnalysis, modelItems map[string][]string) *ExtractResult {
	extracted := make(map[string][]string, len(analysis.Types))
	total := 0

	for _, t := range analysis.Types {
		values, ok := analysis.Patterns[t]
		if !ok {
			values = modelItems[t]
		}
		if values == nil {
			values = []string{}
		}
		extracted[t] = values
		total += len(values)
	}

	label := "all"
	if len(analysis.Types) < len(extractOrder) {
		label = strings.Join(analysis.Types, ",")
	}

	return &ExtractResult{
		Extracted:      extracted,
		ExtractionType: label,
		TotalItems:     total,
	}
}

// resolveExtractTypes canonicalizes the requested types against the known
// set, preserving the canonical order. Empty or "all" selects everything.
func resolveExtractTypes(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string(nil), extractOrder...), nil
	}

	want := make(map[string]struct{}, len(requested))
	for _, t := range requested {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if t == "all" {
			return append([]string(nil), extractOrder...), nil
		}
		want[t] = struct{}{}
	}

	var types []string
	for _, t := range extractOrder {
		if _, ok := want[t]; ok {
			types = append(types, t)
			delete(want, t)
		}
	}

	for t := range want {
		return nil, fmt.Errorf("%w: unknown extraction type %q", ErrInvalidRequest, t)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no extraction types requested", ErrInvalidRequest)
	}
	return types, nil
}

// matchPatterns collects matches for a pattern set, deduped under normalized
// form, preserving first-occurrence order.
func matchPatterns(text string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]struct{})
	items := []string{}

	for _, re := range patterns {
		for _, m := range re.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			norm := normalizeSpace(m)
			if _, ok := seen[norm]; ok || norm == "" {
				continue
			}
			seen[norm] = struct{}{}
			items = append(items, m)
		}
	}
	return items
}
