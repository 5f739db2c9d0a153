// Package textfold strips diacritics so Portuguese text compares the way
// people type it: "Finanças" and "financas" fold to the same letters.
package textfold

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveAccents decomposes s (NFD), drops combining marks and recomposes
// the remainder (NFC). Case is preserved.
func RemoveAccents(s string) string {
	if isASCII(s) {
		return s
	}
	// Transformers are stateful, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases s, removes accents and collapses every run of whitespace
// into a single space, trimming both ends.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(RemoveAccents(s))), " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
