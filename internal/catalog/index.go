package catalog

import (
	"github.com/rotisserie/eris"
)

// Index is the searchable structure built once from the catalog. It maps
// normalized keyword and title tokens to the domain keys declaring them,
// and keeps each domain's keyword token set and normalized title for the
// router. Read-only after construction; safe for concurrent use.
type Index struct {
	byToken         map[string][]string
	keywordTokens   map[string]map[string]struct{}
	normalizedTitle map[string]string
}

// BuildIndex tokenizes every domain's keywords and title and inserts each
// token → domain-key association. Pure function of the catalog: the same
// catalog always yields the same index. A domain that produces no tokens at
// all is a configuration error.
func BuildIndex(c *Catalog) (*Index, error) {
	idx := &Index{
		byToken:         make(map[string][]string),
		keywordTokens:   make(map[string]map[string]struct{}, c.Len()),
		normalizedTitle: make(map[string]string, c.Len()),
	}

	for _, d := range c.Domains() {
		kwTokens := make(map[string]struct{})
		for _, kw := range d.Keywords {
			for _, tok := range Tokenize(kw) {
				kwTokens[tok] = struct{}{}
			}
		}
		idx.keywordTokens[d.Key] = kwTokens
		idx.normalizedTitle[d.Key] = NormalizeTitle(d.Title)

		indexed := false
		seen := make(map[string]struct{})
		insert := func(tok string) {
			if _, dup := seen[tok]; dup {
				return
			}
			seen[tok] = struct{}{}
			idx.byToken[tok] = append(idx.byToken[tok], d.Key)
			indexed = true
		}
		for tok := range kwTokens {
			insert(tok)
		}
		for _, tok := range Tokenize(d.Title) {
			insert(tok)
		}

		if !indexed {
			return nil, eris.Errorf("catalog: domain %q yields no indexable tokens", d.Key)
		}
	}

	return idx, nil
}

// DomainsForToken returns the domain keys declaring token as a keyword or
// title word.
func (idx *Index) DomainsForToken(token string) []string {
	return idx.byToken[token]
}

// HasKeywordToken reports whether token is one of key's keyword tokens.
func (idx *Index) HasKeywordToken(key, token string) bool {
	_, ok := idx.keywordTokens[key][token]
	return ok
}

// KeywordTokenCount returns the number of distinct keyword tokens declared
// by key.
func (idx *Index) KeywordTokenCount(key string) int {
	return len(idx.keywordTokens[key])
}

// NormalizedTitle returns key's title in canonical comparison form.
func (idx *Index) NormalizedTitle(key string) string {
	return idx.normalizedTitle[key]
}
