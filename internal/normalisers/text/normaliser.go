// Package text sanitises HTML-escaped free-text fields: entities are
// unescaped and markup tags are dropped. It is applied to metadata text
// fields during index projection; review-authored text is carried
// through the pipeline verbatim.
package text

import (
	"html"
	"regexp"
	"strings"
)

// tagPattern matches any angle-bracket-delimited run. Tags are not
// validated against a tag grammar; anything bracketed is markup.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Sanitise unescapes HTML entities, replaces markup tags with a space
// and trims the result. Empty input yields the empty string.
func Sanitise(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = tagPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
