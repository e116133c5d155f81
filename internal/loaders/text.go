package loaders

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// extractText decodes plain-text bytes: UTF-8 passes through, anything else
// falls back to Latin-1, which cannot fail.
func extractText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
