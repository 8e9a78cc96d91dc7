// Package date resolves one canonical calendar date from the two
// conflicting representations carried by review rows: an optional Unix
// epoch timestamp and an optional human-readable "MM DD, YYYY" string.
package date

import "time"

// ISO is the canonical output layout.
const ISO = "2006-01-02"

// textLayout is the strict review-time layout, e.g. "05 26, 2009".
// Go's non-padded numeric layout accepts both padded and unpadded parts.
const textLayout = "1 2, 2006"

// Resolve returns the canonical "YYYY-MM-DD" date, or nil.
//
// A present, non-zero Unix timestamp always wins and is interpreted in
// UTC. A zero timestamp is deliberately treated as absent so that
// epoch-zero artifacts never shadow the text field; callers that need
// the literal 1970-01-01 must special-case it upstream. Only when no
// usable timestamp exists is the text field parsed, and any parse
// failure yields nil rather than failing the run.
func Resolve(text string, unix *int64) *string {
	if unix != nil && *unix != 0 {
		s := time.Unix(*unix, 0).UTC().Format(ISO)
		return &s
	}
	if text == "" {
		return nil
	}
	t, err := time.Parse(textLayout, text)
	if err != nil {
		return nil
	}
	s := t.Format(ISO)
	return &s
}
