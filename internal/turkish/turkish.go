// Package turkish bundles the Turkish-locale text rules shared by the
// sanitization pipeline, the catalogue sort, and the similarity checker.
//
// Turkish casing is special: the dotted/dotless I pair (İ/i vs I/ı) does
// not follow ASCII case folding, so every case conversion here goes
// through golang.org/x/text with the Turkish language tag. Byte-wise
// strings.ToUpper / strings.ToLower must never be used on name data.
package turkish

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TitleCase normalizes a name to the stored form: first rune Turkish
// uppercase, remainder Turkish lowercase (e.g. "IŞIL" → "Işıl",
// "izel" → "İzel"). Leading/trailing whitespace is trimmed first.
//
// Casers are stateful, so fresh ones are built per call.
func TitleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Turkish).String(s[:size]) +
		cases.Lower(language.Turkish).String(s[size:])
}

// Lower converts s to Turkish lowercase ("I" → "ı", "İ" → "i").
func Lower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// IsAlphabet reports whether every rune of s is a Turkish-alphabet letter,
// a space, or a dash. The basic Latin letters are accepted in full, as
// foreign-origin names in the catalogue may carry them.
func IsAlphabet(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == ' ' || r == '-':
		case strings.ContainsRune("çÇğĞıİöÖşŞüÜ", r):
		default:
			return false
		}
	}
	return true
}

// HasRepeatedRun reports whether s contains three or more identical
// consecutive runes ("Ahmeeet"). Genuine Turkish names never do.
func HasRepeatedRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= 3 {
				return true
			}
		} else {
			prev, run = r, 1
		}
	}
	return false
}

// Less returns a comparison closure ordering strings by Turkish collation
// (Ç after C, Ğ after G, İ after I, and so on, not byte order). The
// returned closure owns a private collator and must not be shared across
// goroutines.
func Less() func(a, b string) bool {
	c := collate.New(language.Turkish)
	return func(a, b string) bool { return c.CompareString(a, b) < 0 }
}
