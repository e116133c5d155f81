package formatting

import (
	"regexp"
	"strings"
)

var (
	fenceBlock     = regexp.MustCompile("(?s)```[a-zA-Z]*\\n?(.*?)```")
	inlineCode     = regexp.MustCompile("`([^`]*)`")
	boldText       = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicText     = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	markdownLink   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingMarker  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	listMarker     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	orderedMarker  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	horizontalRule = regexp.MustCompile(`(?m)^(?:-{3,}|\*{3,}|_{3,})\s*$`)
)

// StripMarkdown removes common markdown syntax from text, keeping the
// underlying content: fences and inline code keep their contents, links keep
// their label, emphasis and heading/list markers are dropped.
func StripMarkdown(s string) string {
	s = fenceBlock.ReplaceAllString(s, "$1")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = boldText.ReplaceAllString(s, "$1$2")
	s = italicText.ReplaceAllString(s, "$1$2")
	s = markdownLink.ReplaceAllString(s, "$1")
	s = headingMarker.ReplaceAllString(s, "")
	s = listMarker.ReplaceAllString(s, "")
	s = orderedMarker.ReplaceAllString(s, "")
	s = horizontalRule.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
