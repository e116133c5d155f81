package alignment

import (
	"strings"
	"unicode"
)

// Jaccard computes word-set similarity between two texts: the size of the
// intersection over the size of the union of their normalized word sets.
// Two empty texts are identical (1.0); an empty text against a non-empty
// text shares nothing (0.0).
func Jaccard(a, b string) float64 {
	sa := wordSet(a)
	sb := wordSet(b)

	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}

	intersection := 0
	for w := range sa {
		if _, ok := sb[w]; ok {
			intersection++
		}
	}

	union := len(sa) + len(sb) - intersection
	if union == 0 {
		return 1
	}

	return float64(intersection) / float64(union)
}

// wordSet lowercases text and splits on any rune that is not a letter or
// digit, so punctuation never distinguishes otherwise identical words.
func wordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
