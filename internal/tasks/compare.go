package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharanyaa23/DocSense/internal/alignment"
	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/pkg/formatting"
)

const previewRunes = 200

const identicalSummary = "The two documents are identical: every chunk aligned with no differences."

// Compare reports how two documents differ. The chunk alignment computed by
// the analyzer is the ground truth; inference only narrates the changed
// pairs, and the validator rejects any narrated change the alignment did not
// produce.
type Compare struct {
	// Threshold is the similarity cutoff for aligning edited chunks as
	// modifications. Zero selects the engine default.
	Threshold float64
}

type compareNarrative struct {
	Summary string           `json:"summary"`
	Changes []narratedChange `json:"changes"`
}

type narratedChange struct {
	Kind        string `json:"kind"`
	Position    int    `json:"position"`
	Description string `json:"description"`
}

// Kind identifies the task.
func (Compare) Kind() Kind {
	return KindCompare
}

// Analyze aligns the two documents' chunk sequences. Alignment failure is
// fatal: no inference call is made.
func (c Compare) Analyze(ctx context.Context, run *Run) (any, error) {
	threshold := c.Threshold
	if threshold == 0 {
		threshold = alignment.DefaultSimilarityThreshold
	}

	engine, err := alignment.NewEngine(threshold)
	if err != nil {
		return nil, err
	}

	return engine.Align(run.Chunks, run.SecondaryChunks)
}

// ShortCircuit finishes without inference when the alignment found no
// changes: there is nothing to narrate.
func (c Compare) ShortCircuit(run *Run) (any, bool) {
	al, ok := run.Analysis.(*alignment.Alignment)
	if !ok || al.TotalChanges() > 0 {
		return nil, false
	}

	result := c.buildResult(run, al, &compareNarrative{Summary: identicalSummary})
	result.SimilarityScore = 1.0
	return result, true
}

// Prepare selects the primary-document chunks participating in changed
// pairs.
func (Compare) Prepare(run *Run) (*Plan, error) {
	al, ok := run.Analysis.(*alignment.Alignment)
	if !ok {
		return nil, fmt.Errorf("%w: comparison alignment missing", ErrInvalidRequest)
	}

	var chunks []documents.Chunk
	for _, p := range al.Changes() {
		if p.AIndex >= 0 {
			chunks = append(chunks, run.Chunks[p.AIndex])
		}
	}
	return &Plan{Chunks: chunks}, nil
}

// BuildPrompt presents the computed changed pairs for narration.
func (Compare) BuildPrompt(run *Run, chunk *documents.Chunk) (string, error) {
	al, ok := run.Analysis.(*alignment.Alignment)
	if !ok {
		return "", fmt.Errorf("%w: comparison alignment missing", ErrInvalidRequest)
	}

	var sb strings.Builder
	sb.WriteString(compareSpec)

	if run.Hint != "" {
		sb.WriteString("\n\nA prior attempt failed review: ")
		sb.WriteString(run.Hint)
	}

	sb.WriteString("\n\nVerified changes:\n")
	for i, p := range al.Pairs {
		if p.Kind == alignment.Unchanged {
			continue
		}

		fmt.Fprintf(&sb, "\nposition %d (%s):\n", i, p.Kind)
		switch p.Kind {
		case alignment.Added:
			fmt.Fprintf(&sb, "  new text: %s\n", preview(run.SecondaryChunks[p.BIndex].Text))
		case alignment.Removed:
			fmt.Fprintf(&sb, "  removed text: %s\n", preview(run.Chunks[p.AIndex].Text))
		case alignment.Modified:
			fmt.Fprintf(&sb, "  before: %s\n", preview(run.Chunks[p.AIndex].Text))
			fmt.Fprintf(&sb, "  after: %s\n", preview(run.SecondaryChunks[p.BIndex].Text))
			for _, note := range p.Notes {
				fmt.Fprintf(&sb, "  diff: %s\n", note)
			}
		}
	}

	return sb.String(), nil
}

// Validate cross-checks the narrative against the alignment: every narrated
// change must name a computed changed pair by position and kind, and a
// narrative covering no change when changes exist is retryable.
func (Compare) Validate(run *Run, output string) ValidationResult {
	al, ok := run.Analysis.(*alignment.Alignment)
	if !ok {
		return ValidationResult{Reason: "comparison alignment missing"}
	}

	narrative, err := formatting.Parse[compareNarrative](output)
	if err != nil {
		return ValidationResult{
			Reason: "output is not a JSON narrative object",
			Hint:   "Respond with a single JSON object carrying summary and changes.",
		}
	}

	if strings.TrimSpace(narrative.Summary) == "" {
		return ValidationResult{
			Reason: "missing field: summary",
			Hint:   "Include a short overall summary of how the document changed.",
		}
	}

	for _, change := range narrative.Changes {
		if change.Position < 0 || change.Position >= len(al.Pairs) {
			return ValidationResult{
				Reason: fmt.Sprintf("invented difference: no pair at position %d", change.Position),
				Hint:   "Describe only the verified changes listed in the prompt, using their given positions.",
			}
		}

		pair := al.Pairs[change.Position]
		if pair.Kind == alignment.Unchanged || !strings.EqualFold(change.Kind, string(pair.Kind)) {
			return ValidationResult{
				Reason: fmt.Sprintf("invented difference: position %d is not %s", change.Position, change.Kind),
				Hint:   "Each described change must match the kind listed for its position in the prompt.",
			}
		}
	}

	if len(narrative.Changes) == 0 && al.TotalChanges() > 0 {
		return ValidationResult{
			Reason: "narrative describes none of the computed changes",
			Hint:   "Describe the verified changes listed in the prompt; do not return an empty changes array.",
		}
	}

	return ValidationResult{Passed: true}
}

// Finalize builds the comparison result from the alignment, attaching model
// descriptions to their pairs by position.
func (c Compare) Finalize(run *Run, output string) (any, error) {
	al, ok := run.Analysis.(*alignment.Alignment)
	if !ok {
		return nil, fmt.Errorf("%w: comparison alignment missing", ErrInvalidRequest)
	}

	narrative, err := formatting.Parse[compareNarrative](output)
	if err != nil {
		return nil, fmt.Errorf("parse validated comparison narrative: %w", err)
	}

	return c.buildResult(run, al, &narrative), nil
}

func (Compare) buildResult(run *Run, al *alignment.Alignment, narrative *compareNarrative) *CompareResult {
	descriptions := make(map[int]string, len(narrative.Changes))
	for _, change := range narrative.Changes {
		descriptions[change.Position] = change.Description
	}

	result := &CompareResult{
		Additions:       []ChangeEntry{},
		Deletions:       []ChangeEntry{},
		Modifications:   []ChangeEntry{},
		OverallSummary:  strings.TrimSpace(narrative.Summary),
		SimilarityScore: al.Score,
		Doc1Length:      run.Request.Document.Length,
		Doc2Length:      run.Request.Secondary.Length,
		TotalChanges:    al.TotalChanges(),
	}

	for i, p := range al.Pairs {
		entry := ChangeEntry{Position: i, Description: descriptions[i]}
		switch p.Kind {
		case alignment.Added:
			entry.After = preview(run.SecondaryChunks[p.BIndex].Text)
			result.Additions = append(result.Additions, entry)
		case alignment.Removed:
			entry.Before = preview(run.Chunks[p.AIndex].Text)
			result.Deletions = append(result.Deletions, entry)
		case alignment.Modified:
			entry.Before = preview(run.Chunks[p.AIndex].Text)
			entry.After = preview(run.SecondaryChunks[p.BIndex].Text)
			result.Modifications = append(result.Modifications, entry)
		}
	}

	return result
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}
