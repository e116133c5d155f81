package documents

import (
	"regexp"
	"strings"
)

const bytesPerToken = 4

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normalize canonicalizes raw document text: line endings become LF, runs of
// horizontal whitespace collapse to single spaces, runs of three or more
// newlines collapse to a single blank line, and surrounding whitespace is
// trimmed. Identical input bytes always produce identical output.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = strings.Join(lines, "\n")

	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// EstimateTokens approximates the token count of text using a bytes-per-token
// heuristic. Non-empty text always estimates at least one token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(len(text)/bytesPerToken, 1)
}
