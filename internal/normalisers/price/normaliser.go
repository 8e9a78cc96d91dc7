// Package price extracts a single numeric value from free-text price
// strings. Source prices may contain currency symbols, ranges, grouping
// commas or plain garbage; extraction is best effort and nil is a
// first-class result distinct from zero.
package price

import (
	"regexp"
	"strconv"
	"strings"
)

// Tokens that appear as price placeholders in the wild and mean "no price".
var garbageTokens = map[string]struct{}{
	"":    {},
	".":   {},
	"-":   {},
	"N/A": {},
	"na":  {},
	"NA":  {},
}

// numberPattern matches a numeral: digits with an optional fraction, or a
// bare fraction like ".99". Digit adjacency is checked separately since
// RE2 has no lookarounds.
var numberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?|\.[0-9]+`)

// Parse extracts the first standalone numeral from s, or nil.
//
// A candidate directly preceded or followed by another digit is rejected:
// it is a fragment of a larger malformed number or a unit code, not a
// price.
func Parse(s string) *float64 {
	s = strings.TrimSpace(s)
	if _, bad := garbageTokens[s]; bad {
		return nil
	}

	// Grouping commas would split the numeral.
	s = strings.ReplaceAll(s, ",", "")

	for _, loc := range numberPattern.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isDigit(s[start-1]) {
			continue
		}
		if end < len(s) && isDigit(s[end]) {
			continue
		}

		num := s[start:end]
		if strings.HasPrefix(num, ".") {
			num = "0" + num
		}
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
