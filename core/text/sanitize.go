// Package text cleans up free-text fields coming from upstream markup.
package text

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	spaceRegex  = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// one pass per level of entity encoding
const maxPasses = 16

// Sanitize removes markup from s, decodes HTML entities and collapses runs of whitespace into single spaces.
// Tags are stripped before entities are decoded, and the two steps repeat until the text settles, so
// encoded markup (even encoded more than once) is stripped too and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	for i := 0; i < maxPasses && s != ""; i++ {
		next := sanitizeOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func sanitizeOnce(s string) string {
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Summarize sanitizes s and truncates it to n runes, falling back to `fallback` when nothing is left.
func Summarize(s string, n int, fallback string) string {
	if s = Truncate(Sanitize(s), n); s == "" {
		return fallback
	}
	return s
}
