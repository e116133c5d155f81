// Package documents defines the document model, text normalization, and the
// chunker that segments normalized text into overlapping windows for
// inference and alignment.
package documents

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Document is a normalized text document prepared for task processing.
// Chunks is empty until Chunk is called.
type Document struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Text   string    `json:"text"`
	Length int       `json:"length"`
	Chunks []Chunk   `json:"chunks,omitempty"`
}

// Chunk is a contiguous window of document text. Start and End are rune
// offsets into the normalized document text.
type Chunk struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Tokens int    `json:"tokens"`
}

// New normalizes raw text into a Document. Documents that normalize to
// nothing (empty or whitespace-only input) are rejected.
func New(name, raw string) (*Document, error) {
	text := Normalize(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}

	return &Document{
		ID:     uuid.New(),
		Name:   name,
		Text:   text,
		Length: utf8.RuneCountInString(text),
	}, nil
}

// Chunk segments the document text and stores the result on the document.
func (d *Document) Chunk(size, overlap int) error {
	chunks, err := ChunkText(d.Text, size, overlap)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	d.Chunks = chunks
	return nil
}

// WordCount returns the number of whitespace-delimited words in the document.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Text))
}
