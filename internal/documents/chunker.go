package documents

import (
	"fmt"
	"strings"
	"unicode"
)

// Default chunking parameters.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// ChunkText segments text into windows of at most size runes with overlap
// runes of trailing context carried into each subsequent window. When a
// window does not end the document, the cut point prefers a sentence
// boundary past the window midpoint, then a word boundary, then a hard cut.
// Output is deterministic: identical inputs produce identical chunks.
func ChunkText(text string, size, overlap int) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrChunking)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrChunking, overlap, size)
	}

	runes := []rune(text)
	var chunks []Chunk

	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakPoint(runes, start, end)
		}

		segment := string(runes[start:end])
		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Text:   segment,
			Start:  start,
			End:    end,
			Tokens: EstimateTokens(segment),
		})

		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

// breakPoint scans backward from the cut point for a sentence end, accepting
// one only past the window midpoint. It falls back to the last word boundary
// past the midpoint, then to the hard cut.
func breakPoint(runes []rune, start, cut int) int {
	mid := start + (cut-start)/2

	for i := cut - 1; i > mid; i-- {
		if sentenceEnd(runes, i) {
			return i + 1
		}
	}

	for i := cut - 1; i > mid; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}

	return cut
}

func sentenceEnd(runes []rune, i int) bool {
	switch runes[i] {
	case '.', '!', '?':
	default:
		return false
	}
	return i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n'
}
