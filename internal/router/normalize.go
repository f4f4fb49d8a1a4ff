package router

import (
	"regexp"
	"strings"

	"github.com/veridian-group/esia-cli/internal/catalog"
)

// numberingPrefix matches leading section numbering like "2.0 ", "4.3.7 ",
// "12. " at the start of a heading.
var numberingPrefix = regexp.MustCompile(`^\s*\d+(?:\.\d+)*\.?\s+`)

// NormalizeHeading strips leading numbering from a raw section heading and
// tokenizes the remainder with the catalog tokenizer (camelCase and
// non-alphanumeric splits, diacritic folding, lowercase, short tokens
// dropped). Returns the canonical comparison string and the token list.
func NormalizeHeading(heading string) (string, []string) {
	stripped := numberingPrefix.ReplaceAllString(heading, "")
	tokens := catalog.Tokenize(stripped)
	return strings.Join(tokens, " "), tokens
}
