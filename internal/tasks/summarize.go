package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/pkg/formatting"
)

// Summarize produces a structured plain-text summary of a document. Its
// analyzer detects section headings in the source; the validator requires
// every detected section to surface in the summary.
type Summarize struct{}

// Kind identifies the task.
func (Summarize) Kind() Kind {
	return KindSummarize
}

// Analyze detects the source document's section headings. The result is the
// ground truth the validator checks summaries against.
func (Summarize) Analyze(ctx context.Context, run *Run) (any, error) {
	return detectSections(run.Request.Document.Text), nil
}

// Prepare selects the chunk subset for this round.
func (Summarize) Prepare(run *Run) (*Plan, error) {
	return &Plan{Chunks: selectSubset(run.Chunks, run.Escalated)}, nil
}

// BuildPrompt composes the summary prompt, carrying the repair hint from a
// failed prior attempt when present.
func (Summarize) BuildPrompt(run *Run, chunk *documents.Chunk) (string, error) {
	var sb strings.Builder
	sb.WriteString(summarizeSpec)

	if run.Hint != "" {
		sb.WriteString("\n\n")
		sb.WriteString(summarizeHintPreamble)
		sb.WriteString("\n")
		sb.WriteString(run.Hint)
	}

	sb.WriteString("\n\nDocument:\n\n")
	sb.WriteString(joinChunkText(run.Selected, textBudget(run.Escalated)))
	return sb.String(), nil
}

// Validate requires a non-empty summary that references every section the
// analyzer detected in the source. A section counts as covered when any of
// its informative title words appears in the summary.
func (Summarize) Validate(run *Run, output string) ValidationResult {
	summary := formatting.StripMarkdown(output)
	if summary == "" {
		return ValidationResult{
			Reason: "summary is empty",
			Hint:   "Produce a non-empty plain-text summary of the document.",
		}
	}

	sections, _ := run.Analysis.([]string)
	normalized := normalizeSpace(summary)

	for _, section := range sections {
		if sectionCovered(normalized, section) {
			continue
		}
		return ValidationResult{
			Reason: fmt.Sprintf("missing section: %s", section),
			Hint:   fmt.Sprintf("The summary must cover the section titled %q.", section),
		}
	}

	return ValidationResult{Passed: true}
}

// Finalize strips residual markdown and wraps the summary with document
// statistics.
func (Summarize) Finalize(run *Run, output string) (any, error) {
	sections, _ := run.Analysis.([]string)
	return &SummarizeResult{
		Summary:          formatting.StripMarkdown(output),
		WordCount:        run.Request.Document.WordCount(),
		SectionsVerified: len(sections) > 0,
	}, nil
}

// sectionCovered reports whether the normalized summary mentions the section
// title, either verbatim or through one of its informative words.
func sectionCovered(normalizedSummary, title string) bool {
	if strings.Contains(normalizedSummary, normalizeSpace(title)) {
		return true
	}

	words := informativeWords(title)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if strings.Contains(normalizedSummary, w) {
			return true
		}
	}
	return false
}
