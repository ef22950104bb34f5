// Package sanitizer converts HTML message bodies into plain-text alternatives.
package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once

	// Tags that end a visual line. Replaced with a newline before stripping
	// so paragraphs don't run together in the text part.
	lineBreaks = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|h[1-6]|li|tr|blockquote|pre|table|ul|ol)\s*>`)
)

func initPolicy() {
	initOnce.Do(func() {
		// StrictPolicy strips all elements and drops script/style contents.
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// PlainText strips all markup from s and returns readable text.
// Block-level elements become line breaks, entities are decoded,
// runs of whitespace within a line are collapsed and blank lines dropped.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	initPolicy()

	stripped := strictPolicy.Sanitize(lineBreaks.ReplaceAllString(s, "\n"))
	text := html.UnescapeString(stripped)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}
