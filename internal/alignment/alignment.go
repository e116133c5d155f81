// Package alignment computes ordered chunk-level alignments between two
// documents using a Needleman-Wunsch dynamic program over chunk similarity.
// The alignment is the ground truth for comparison: inference narrates it but
// never defines it.
package alignment

import (
	"fmt"
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/sharanyaa23/DocSense/internal/documents"
)

// DefaultSimilarityThreshold is the minimum word-set similarity for two
// chunks to align as a modification rather than a removal plus an addition.
const DefaultSimilarityThreshold = 0.85

const maxNotes = 4

// Kind labels the disposition of one aligned pair.
type Kind string

// Pair dispositions.
const (
	Unchanged Kind = "unchanged"
	Modified  Kind = "modified"
	Added     Kind = "added"
	Removed   Kind = "removed"
)

// Pair aligns one chunk position across the two documents. AIndex is -1 for
// added pairs and BIndex is -1 for removed pairs. Notes carries line-level
// diff fragments for modified pairs.
type Pair struct {
	Kind       Kind     `json:"kind"`
	AIndex     int      `json:"a_index"`
	BIndex     int      `json:"b_index"`
	Similarity float64  `json:"similarity"`
	Notes      []string `json:"notes,omitempty"`
}

// Alignment is the ordered pairing of two chunk sequences. Pair indices are
// monotonically increasing on both sides: no pair crosses another.
type Alignment struct {
	Pairs     []Pair  `json:"pairs"`
	Score     float64 `json:"score"`
	Unchanged int     `json:"unchanged"`
	Modified  int     `json:"modified"`
	Added     int     `json:"added"`
	Removed   int     `json:"removed"`
}

// Changes returns the pairs that are not unchanged, in alignment order.
func (a *Alignment) Changes() []Pair {
	var changes []Pair
	for _, p := range a.Pairs {
		if p.Kind != Unchanged {
			changes = append(changes, p)
		}
	}
	return changes
}

// TotalChanges returns the number of modified, added, and removed pairs.
func (a *Alignment) TotalChanges() int {
	return a.Modified + a.Added + a.Removed
}

// Engine aligns chunk sequences under a fixed similarity threshold.
type Engine struct {
	threshold float64
}

// NewEngine creates an Engine. The threshold must be in (0, 1].
func NewEngine(threshold float64) (*Engine, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v must be in (0, 1]", ErrAlignment, threshold)
	}
	return &Engine{threshold: threshold}, nil
}

// Align computes the minimum-cost pairing of the two chunk sequences in
// O(n*m) time and space. Exact matches cost 0, modifications cost one minus
// their similarity when similarity meets the threshold, and insertions and
// deletions cost 1. Ties prefer pairing over insertion or deletion, so
// identical inputs always align as all unchanged.
func (e *Engine) Align(a, b []documents.Chunk) (*Alignment, error) {
	if err := validateChunks("a", a); err != nil {
		return nil, err
	}
	if err := validateChunks("b", b); err != nil {
		return nil, err
	}

	n, m := len(a), len(b)

	cost := make([][]float64, n+1)
	move := make([][]byte, n+1)
	sims := make([][]float64, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		move[i] = make([]byte, m+1)
		sims[i] = make([]float64, m+1)
	}

	for i := 1; i <= n; i++ {
		cost[i][0] = float64(i)
		move[i][0] = moveUp
	}
	for j := 1; j <= m; j++ {
		cost[0][j] = float64(j)
		move[0][j] = moveLeft
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sim := Jaccard(a[i-1].Text, b[j-1].Text)
			sims[i][j] = sim

			diag := math.Inf(1)
			switch {
			case a[i-1].Text == b[j-1].Text:
				diag = cost[i-1][j-1]
			case sim >= e.threshold:
				diag = cost[i-1][j-1] + (1 - sim)
			}

			up := cost[i-1][j] + 1
			left := cost[i][j-1] + 1

			switch {
			case diag <= up && diag <= left:
				cost[i][j] = diag
				move[i][j] = moveDiag
			case up <= left:
				cost[i][j] = up
				move[i][j] = moveUp
			default:
				cost[i][j] = left
				move[i][j] = moveLeft
			}
		}
	}

	pairs := traceback(a, b, move, sims)

	alignment := &Alignment{
		Pairs: pairs,
		Score: Jaccard(joinChunks(a), joinChunks(b)),
	}
	for _, p := range pairs {
		switch p.Kind {
		case Unchanged:
			alignment.Unchanged++
		case Modified:
			alignment.Modified++
		case Added:
			alignment.Added++
		case Removed:
			alignment.Removed++
		}
	}

	return alignment, nil
}

const (
	moveDiag byte = iota + 1
	moveUp
	moveLeft
)

func traceback(a, b []documents.Chunk, move [][]byte, sims [][]float64) []Pair {
	var reversed []Pair

	i, j := len(a), len(b)
	for i > 0 || j > 0 {
		switch move[i][j] {
		case moveDiag:
			pair := Pair{
				AIndex:     i - 1,
				BIndex:     j - 1,
				Similarity: sims[i][j],
			}
			if a[i-1].Text == b[j-1].Text {
				pair.Kind = Unchanged
				pair.Similarity = 1
			} else {
				pair.Kind = Modified
				pair.Notes = subSpanNotes(a[i-1].Text, b[j-1].Text)
			}
			reversed = append(reversed, pair)
			i--
			j--
		case moveUp:
			reversed = append(reversed, Pair{Kind: Removed, AIndex: i - 1, BIndex: -1})
			i--
		case moveLeft:
			reversed = append(reversed, Pair{Kind: Added, AIndex: -1, BIndex: j - 1})
			j--
		default:
			return nil
		}
	}

	pairs := make([]Pair, 0, len(reversed))
	for k := len(reversed) - 1; k >= 0; k-- {
		pairs = append(pairs, reversed[k])
	}
	return pairs
}

// subSpanNotes extracts the changed lines of a zero-context unified diff
// between the two chunk texts, capped at maxNotes entries.
func subSpanNotes(aText, bText string) []string {
	diff := difflib.UnifiedDiff{
		A:       difflib.SplitLines(aText),
		B:       difflib.SplitLines(bText),
		Context: 0,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil
	}

	var notes []string
	for _, line := range strings.Split(text, "\n") {
		if len(line) < 2 {
			continue
		}
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			continue
		}
		if line[0] != '+' && line[0] != '-' {
			continue
		}

		notes = append(notes, strings.TrimSpace(line))
		if len(notes) == maxNotes {
			break
		}
	}
	return notes
}

func validateChunks(side string, chunks []documents.Chunk) error {
	for i, c := range chunks {
		if c.Index != i {
			return fmt.Errorf("%w: sequence %s chunk at position %d carries index %d", ErrAlignment, side, i, c.Index)
		}
		if c.Text == "" {
			return fmt.Errorf("%w: sequence %s chunk %d is empty", ErrAlignment, side, i)
		}
	}
	return nil
}

func joinChunks(chunks []documents.Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
		sb.WriteString(" ")
	}
	return sb.String()
}
