package tasks

import (
	"regexp"
	"strings"
	"unicode"
)

var numberedHeading = regexp.MustCompile(`^\d+(?:\.\d+)*[.)]?\s+(.+)$`)

var connectorWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "ancillary": {}, "for": {}, "in": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "with": {},
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "are": {}, "was": {}, "has": {}, "have": {}, "its": {},
}

// detectSections scans normalized document text for heading-like lines:
// numbered headings, short all-caps lines, markdown headings, and short
// title-case lines. Results keep document order and dedupe
// case-insensitively.
func detectSections(text string) []string {
	var sections []string
	seen := make(map[string]struct{})

	add := func(title string) {
		title = strings.TrimSpace(title)
		key := strings.ToLower(title)
		if title == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		sections = append(sections, title)
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len([]rune(line)) > 64 {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "#"); ok {
			add(strings.TrimLeft(rest, "# "))
			continue
		}

		if m := numberedHeading.FindStringSubmatch(line); m != nil {
			if headingShape(m[1]) {
				add(m[1])
			}
			continue
		}

		trimmed := strings.TrimSuffix(line, ":")
		if strings.ContainsAny(trimmed, ".,;!?") {
			continue
		}
		if !headingShape(trimmed) {
			continue
		}

		if allCaps(trimmed) || titleCase(trimmed) {
			add(trimmed)
		}
	}

	return sections
}

// headingShape bounds a candidate heading to one through eight words.
func headingShape(s string) bool {
	n := len(strings.Fields(s))
	return n >= 1 && n <= 8
}

func allCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 3
}

func titleCase(s string) bool {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		if unicode.IsUpper(runes[0]) || unicode.IsDigit(runes[0]) {
			continue
		}
		if i == 0 || i == len(words)-1 {
			return false
		}
		if _, ok := connectorWords[strings.ToLower(w)]; !ok {
			return false
		}
	}
	return true
}

// informativeWords lowercases s and keeps words of three or more runes that
// are not stop words, with punctuation stripped.
func informativeWords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var words []string
	for _, w := range fields {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		words = append(words, w)
	}
	return words
}

// normalizeSpace lowercases s and collapses all whitespace runs to single
// spaces, for tolerant substring matching.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// occursIn reports whether item appears in source, ignoring case and
// whitespace differences.
func occursIn(source, item string) bool {
	item = normalizeSpace(item)
	if item == "" {
		return false
	}
	return strings.Contains(normalizeSpace(source), item)
}
