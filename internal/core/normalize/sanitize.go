package normalize

import (
	"strings"
	"unicode"
)

// Sanitize drops invalid UTF-8 and control runes; tab, CR and LF become spaces
func Sanitize(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
