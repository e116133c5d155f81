package documents_test

import (
	"errors"
	"testing"

	"github.com/sharanyaa23/DocSense/internal/documents"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "windows line endings",
			input: "alpha\r\nbeta\r\ngamma",
			want:  "alpha\nbeta\ngamma",
		},
		{
			name:  "bare carriage returns",
			input: "alpha\rbeta",
			want:  "alpha\nbeta",
		},
		{
			name:  "tabs collapse to spaces",
			input: "alpha\tbeta\t\tgamma",
			want:  "alpha beta gamma",
		},
		{
			name:  "space runs collapse",
			input: "alpha    beta",
			want:  "alpha beta",
		},
		{
			name:  "blank line runs collapse to one blank line",
			input: "alpha\n\n\n\n\nbeta",
			want:  "alpha\n\nbeta",
		},
		{
			name:  "single blank line preserved",
			input: "alpha\n\nbeta",
			want:  "alpha\n\nbeta",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  alpha beta \n",
			want:  "alpha beta",
		},
		{
			name:  "trailing line whitespace removed",
			input: "alpha  \nbeta",
			want:  "alpha\nbeta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documents.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}

			if again := documents.Normalize(tt.input); again != got {
				t.Errorf("normalize not deterministic: %q vs %q", again, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	doc, err := documents.New("report.txt", "one two  three\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Text != "one two three" {
		t.Errorf("text: got %q", doc.Text)
	}
	if doc.Length != 13 {
		t.Errorf("length: got %d, want 13", doc.Length)
	}
	if doc.WordCount() != 3 {
		t.Errorf("word count: got %d, want 3", doc.WordCount())
	}
	if doc.ID.String() == "" {
		t.Error("expected non-empty document ID")
	}
	if len(doc.Chunks) != 0 {
		t.Errorf("expected no chunks before Chunk call, got %d", len(doc.Chunks))
	}
}

func TestNewEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   \t\n\r\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := documents.New("empty.txt", tt.input)
			if !errors.Is(err, documents.ErrEmptyDocument) {
				t.Errorf("got %v, want ErrEmptyDocument", err)
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "short text rounds up to one", input: "abc", want: 1},
		{name: "eight bytes", input: "abcdefgh", want: 2},
		{name: "forty bytes", input: "aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd", want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documents.EstimateTokens(tt.input); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
