// Package router matches arbitrary, inconsistently named section headings
// to extraction domains by combining fuzzy title similarity with keyword
// overlap. Stateless per call; the only shared inputs are the read-only
// keyword index and applicable domain set, so concurrent routing needs no
// locking.
package router

import (
	"sort"

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/loader"
	"github.com/veridian-group/esia-cli/internal/model"
)

// DefaultTopN bounds the candidate list when callers pass no preference.
const DefaultTopN = 5

// Weights and threshold are empirically chosen; the test scenarios are
// calibrated against these exact values, so prefer overriding via Config to
// re-deriving them.
const (
	defaultFuzzyWeight   = 0.6
	defaultKeywordWeight = 0.4
	defaultMinConfidence = 0.3
)

// Config overrides the scoring constants. Zero weights fall back to the
// defaults above. MinConfidence is a pointer so an explicit threshold of
// zero (keep every applicable domain) stays distinguishable from unset.
type Config struct {
	FuzzyWeight   float64
	KeywordWeight float64
	MinConfidence *float64
}

// Threshold builds the MinConfidence field of a Config literal.
func Threshold(v float64) *float64 { return &v }

func (c Config) withDefaults() Config {
	if c.FuzzyWeight <= 0 {
		c.FuzzyWeight = defaultFuzzyWeight
	}
	if c.KeywordWeight <= 0 {
		c.KeywordWeight = defaultKeywordWeight
	}
	if c.MinConfidence == nil {
		c.MinConfidence = Threshold(defaultMinConfidence)
	}
	return c
}

// distinct keeps the first occurrence of each token. Overlap is a set
// measure, so a heading that repeats a keyword token must not count it
// twice (that would push confidence past 1.0).
func distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Route returns up to topN candidate domains for a section heading, ranked
// by combined confidence, restricted to the applicable set. An empty result
// is a normal outcome (e.g. a table-of-contents heading), not an error.
func Route(heading string, idx *catalog.Index, applicable *loader.Set, topN int) []model.SectionCandidate {
	return RouteWithConfig(heading, idx, applicable, topN, Config{})
}

// RouteWithConfig is Route with explicit scoring constants.
func RouteWithConfig(heading string, idx *catalog.Index, applicable *loader.Set, topN int, cfg Config) []model.SectionCandidate {
	cfg = cfg.withDefaults()
	if topN < 0 {
		topN = 0
	}

	normHeading, tokens := NormalizeHeading(heading)
	tokens = distinct(tokens)

	type scored struct {
		candidate model.SectionCandidate
		order     int
	}
	var results []scored

	for order, d := range applicable.Domains() {
		fuzzy := similarityRatio(normHeading, idx.NormalizedTitle(d.Key))

		var matched []string
		for _, tok := range tokens {
			if idx.HasKeywordToken(d.Key, tok) {
				matched = append(matched, tok)
			}
		}
		var overlap float64
		if n := idx.KeywordTokenCount(d.Key); n > 0 {
			overlap = float64(len(matched)) / float64(n)
		}

		confidence := cfg.FuzzyWeight*fuzzy + cfg.KeywordWeight*overlap
		if confidence < *cfg.MinConfidence {
			continue
		}

		results = append(results, scored{
			candidate: model.SectionCandidate{
				DomainKey:     d.Key,
				Confidence:    confidence,
				MatchedTokens: matched,
			},
			order: order,
		})
	}

	// Descending confidence; ties go to earlier catalog declaration. The
	// applicable set preserves catalog order, so order here is equivalent.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].candidate.Confidence != results[j].candidate.Confidence {
			return results[i].candidate.Confidence > results[j].candidate.Confidence
		}
		return results[i].order < results[j].order
	})

	if len(results) > topN {
		results = results[:topN]
	}
	candidates := make([]model.SectionCandidate, len(results))
	for i, r := range results {
		candidates[i] = r.candidate
	}
	return candidates
}
