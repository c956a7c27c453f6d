// Package sanitize normalizes catalog text before it is embedded in a prompt.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Field converts the text to NFC form, drops control characters and trims
// surrounding whitespace, including whitespace left behind by dropped runes. Catalog feeds mix decomposed Hangul with precomposed
// text, so the same title must always reach the model as one byte sequence.
func Field(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if r == '\n' || r == '\t' {
				return ' '
			}
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
