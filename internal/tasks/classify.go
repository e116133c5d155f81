package tasks

import (
	"fmt"
	"strings"

	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/pkg/formatting"
)

// DefaultLabels is the classification label set used when a request does not
// supply its own.
var DefaultLabels = []string{
	"resume", "invoice", "contract", "research_paper", "report", "letter", "other",
}

// Confidence levels a classification may carry.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Classify assigns a document one label from an allowed set with a
// confidence level and supporting indicators. An out-of-set or uncertain
// label and low confidence both demand escalation: the re-evaluation runs
// against broadened context rather than a reworded prompt.
type Classify struct{}

type classifyResponse struct {
	Category   string   `json:"category"`
	Confidence string   `json:"confidence"`
	Indicators []string `json:"indicators"`
}

// Kind identifies the task.
func (Classify) Kind() Kind {
	return KindClassify
}

// Prepare selects the chunk subset; escalation broadens it toward the full
// document.
func (Classify) Prepare(run *Run) (*Plan, error) {
	return &Plan{Chunks: selectSubset(run.Chunks, run.Escalated)}, nil
}

// BuildPrompt composes the classification prompt with the allowed label set.
func (Classify) BuildPrompt(run *Run, chunk *documents.Chunk) (string, error) {
	var sb strings.Builder

	if run.Escalated {
		sb.WriteString(classifyEscalatePreamble)
		sb.WriteString("\n\n")
	}

	sb.WriteString(classifySpec)
	sb.WriteString("\n\nAllowed labels: ")
	sb.WriteString(strings.Join(labelSet(run.Request.Options), ", "))

	if run.Hint != "" {
		sb.WriteString("\n\nA prior attempt failed review: ")
		sb.WriteString(run.Hint)
	}

	sb.WriteString("\n\nDocument:\n\n")
	sb.WriteString(joinChunkText(run.Selected, textBudget(run.Escalated)))
	return sb.String(), nil
}

// Validate checks label membership and confidence. Malformed or incomplete
// output is retryable; an out-of-set label, an uncertain answer, or low
// confidence demands escalation.
func (Classify) Validate(run *Run, output string) ValidationResult {
	resp, err := formatting.Parse[classifyResponse](output)
	if err != nil {
		return ValidationResult{
			Reason: "output is not a JSON classification object",
			Hint:   "Respond with a single JSON object carrying category, confidence, and indicators.",
		}
	}

	labels := labelSet(run.Request.Options)
	category := strings.ToLower(strings.TrimSpace(resp.Category))

	if category == "" {
		return ValidationResult{
			Reason: "missing field: category",
			Hint:   "Include the category field with one of the allowed labels.",
		}
	}
	if category == "uncertain" || !containsFold(labels, category) {
		return ValidationResult{
			Reason:   fmt.Sprintf("label outside the allowed set: %s", resp.Category),
			Hint:     fmt.Sprintf("Choose exactly one of: %s.", strings.Join(labels, ", ")),
			Escalate: true,
		}
	}

	switch strings.ToLower(strings.TrimSpace(resp.Confidence)) {
	case ConfidenceHigh, ConfidenceMedium:
	case ConfidenceLow:
		return ValidationResult{
			Reason:   "low confidence classification",
			Hint:     "Re-evaluate the document type against the full document content.",
			Escalate: true,
		}
	case "":
		return ValidationResult{
			Reason: "missing field: confidence",
			Hint:   "Include the confidence field: high, medium, or low.",
		}
	default:
		return ValidationResult{
			Reason: fmt.Sprintf("invalid confidence: %s", resp.Confidence),
			Hint:   "Confidence must be exactly high, medium, or low.",
		}
	}

	return ValidationResult{Passed: true}
}

// Finalize converts the validated output into the typed result, normalizing
// the label to its configured form.
func (Classify) Finalize(run *Run, output string) (any, error) {
	resp, err := formatting.Parse[classifyResponse](output)
	if err != nil {
		return nil, fmt.Errorf("parse validated classification output: %w", err)
	}

	category := strings.ToLower(strings.TrimSpace(resp.Category))
	for _, label := range labelSet(run.Request.Options) {
		if strings.EqualFold(label, category) {
			category = label
			break
		}
	}

	return &ClassifyResult{
		Category:       category,
		Confidence:     strings.ToLower(strings.TrimSpace(resp.Confidence)),
		Indicators:     resp.Indicators,
		DocumentLength: run.Request.Document.Length,
	}, nil
}

func labelSet(opts Options) []string {
	if len(opts.Labels) > 0 {
		return opts.Labels
	}
	return DefaultLabels
}

func containsFold(labels []string, candidate string) bool {
	for _, label := range labels {
		if strings.EqualFold(label, candidate) {
			return true
		}
	}
	return false
}
