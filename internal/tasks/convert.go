package tasks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/pkg/formatting"
)

// DefaultRequiredFields is applied when a conversion request does not name
// its own required fields.
var DefaultRequiredFields = []string{"main_content"}

// ConvertJSON converts a document into a strict JSON structure. Malformed
// payloads and missing required fields are both retryable; the engine's
// budgets decide when missing fields escalate to full-document context.
type ConvertJSON struct{}

// Kind identifies the task.
func (ConvertJSON) Kind() Kind {
	return KindConvertJSON
}

// Prepare selects the chunk subset for this round.
func (ConvertJSON) Prepare(run *Run) (*Plan, error) {
	return &Plan{Chunks: selectSubset(run.Chunks, run.Escalated)}, nil
}

// BuildPrompt composes the conversion prompt.
func (ConvertJSON) BuildPrompt(run *Run, chunk *documents.Chunk) (string, error) {
	var sb strings.Builder
	sb.WriteString(convertSpec)

	if fields := requiredFields(run.Request.Options); len(fields) > 0 {
		sb.WriteString("\n\nRequired non-empty fields: ")
		sb.WriteString(strings.Join(fields, ", "))
	}

	if run.Hint != "" {
		sb.WriteString("\n\nA prior attempt failed review: ")
		sb.WriteString(run.Hint)
	}

	sb.WriteString("\n\nDocument:\n\n")
	sb.WriteString(joinChunkText(run.Selected, textBudget(run.Escalated)))
	return sb.String(), nil
}

// Validate parses the output as JSON, tolerating markdown fences, and checks
// every required field is present and non-empty.
func (ConvertJSON) Validate(run *Run, output string) ValidationResult {
	parsed, err := formatting.Parse[map[string]any](output)
	if err != nil {
		return ValidationResult{
			Reason: "output is not valid JSON",
			Hint:   "Respond with exactly one syntactically valid JSON object: escape embedded quotes and newlines, and do not wrap the object in commentary.",
		}
	}

	var missing []string
	for _, field := range requiredFields(run.Request.Options) {
		if emptyField(parsed[field]) {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return ValidationResult{
			Reason: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
			Hint: fmt.Sprintf(
				"The fields %s must be present and non-empty. Populate them from the document content.",
				strings.Join(missing, ", "),
			),
		}
	}

	return ValidationResult{Passed: true}
}

// Finalize re-parses the validated output and attaches conversion metadata.
func (ConvertJSON) Finalize(run *Run, output string) (any, error) {
	parsed, err := formatting.Parse[map[string]any](output)
	if err != nil {
		return nil, fmt.Errorf("parse validated conversion output: %w", err)
	}

	indented, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render converted JSON: %w", err)
	}

	return &ConvertResult{
		JSON:        parsed,
		JSONString:  string(indented),
		FieldsCount: len(parsed),
		RetriesUsed: run.Attempt - 1,
	}, nil
}

func requiredFields(opts Options) []string {
	if len(opts.RequiredFields) > 0 {
		return opts.RequiredFields
	}
	return DefaultRequiredFields
}

// emptyField reports whether a decoded JSON value is absent or effectively
// empty: a blank string, an empty array, or an empty object.
func emptyField(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case []any:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	}
	return false
}
