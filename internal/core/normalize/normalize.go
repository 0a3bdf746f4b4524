// Package normalize canonicalizes free-text search terms before they reach the store, the cursor
// fingerprint and the popularity tally
//
// Pipeline
// 1 drop control runes and invalid UTF-8
// 2 NFKC
// 3 case fold
// 4 strip format chars (ZWJ, ZWNJ, BOM)
// 5 width fold
// 6 collapse whitespace runs to one space and trim
// 7 cap at MaxRunes
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// MaxRunes bounds a normalized term
const MaxRunes = 100

// transformer chains are stateful so each call borrows its own
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Term returns the canonical form of a search term; blank input yields ""
func Term(s string) string {
	s = Sanitize(s)
	if strings.TrimSpace(s) == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	ns = strings.Join(strings.Fields(ns), " ")
	return capRunes(ns, MaxRunes)
}

func capRunes(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return strings.TrimRight(s[:i], " ")
		}
		n++
	}
	return s
}
