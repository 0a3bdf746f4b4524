package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTerm_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "empty", in: "", out: ""},
		{name: "blank", in: " \t\n ", out: ""},
		{name: "identity", in: "plumber", out: "plumber"},
		{name: "case fold", in: "PlumBER Berlin", out: "plumber berlin"},
		{name: "invalid utf8 dropped", in: string([]byte{0xff, 'v', 'a', 'n', 0x80}), out: "van"},
		{name: "controls dropped", in: "bi\x00ke\x7f", out: "bike"},
		{name: "format chars dropped", in: "gar\u200Bden\uFEFF", out: "garden"},
		{name: "accents kept", in: "Caf\u00e9", out: "caf\u00e9"},
		{name: "combining composed", in: "cafe\u0301", out: "caf\u00e9"},
		{name: "fullwidth", in: "\uff24\uff29\uff39 help", out: "diy help"},
		{name: "ligature", in: "o\ufb03ce chair", out: "office chair"},
		{name: "whitespace collapse", in: "  used \t\t sofa\n bed  ", out: "used sofa bed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Term(tc.in)
			if got != tc.out {
				t.Fatalf("Term(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := Term(got); again != got {
				t.Fatalf("Term not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestTerm_Cap(t *testing.T) {
	in := strings.Repeat("\u00e4", MaxRunes+20)
	got := Term(in)
	if n := utf8.RuneCountInString(got); n != MaxRunes {
		t.Fatalf("runes = %d, want %d", n, MaxRunes)
	}

	// a cut landing right after a word must not leave a trailing space
	words := strings.Repeat("a", MaxRunes-1) + " b"
	if got := Term(words); strings.HasSuffix(got, " ") {
		t.Fatalf("trailing space after cap: %q", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("a\tb\nc\x01\u0085d"); got != "a b cd" {
		t.Fatalf("Sanitize = %q", got)
	}
}
