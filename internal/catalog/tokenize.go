package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLen drops short/stop tokens ("of", "a", "el", numbering remnants).
const minTokenLen = 3

// foldDiacritics strips combining marks so "Descripción" tokenizes the same
// as "Descripcion". ESIA reports are frequently bilingual.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Tokenize splits s on non-alphanumeric and camelCase boundaries, folds
// diacritics, lowercases, and drops tokens shorter than minTokenLen.
// Deterministic: same input always yields the same token list.
func Tokenize(s string) []string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}

	var tokens []string
	var b strings.Builder
	flush := func() {
		// Length in runes, not bytes, so non-Latin short tokens drop too.
		if utf8.RuneCountInString(b.String()) >= minTokenLen {
			tokens = append(tokens, strings.ToLower(b.String()))
		}
		b.Reset()
	}

	rs := []rune(folded)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if b.Len() > 0 && isCamelBoundary(rs, i) {
			flush()
		}
		b.WriteRune(r)
	}
	flush()

	return tokens
}

// isCamelBoundary reports whether a new word starts at rs[i] inside an
// alphanumeric run: lower-to-upper transitions ("projectDescription") and
// the end of an acronym run ("ESMSPolicy" splits before "Policy").
func isCamelBoundary(rs []rune, i int) bool {
	if i == 0 || !unicode.IsUpper(rs[i]) {
		return false
	}
	prev := rs[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
		return true
	}
	return false
}

// NormalizeTitle reduces a title or heading to its canonical comparison
// form: the token list rejoined with single spaces.
func NormalizeTitle(s string) string {
	return strings.Join(Tokenize(s), " ")
}
