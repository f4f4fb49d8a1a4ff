package model

// SectionCandidate is the result of routing one section heading: a domain
// the heading plausibly belongs to, with a heuristic confidence in [0,1]
// and the keyword tokens that contributed to the match. Produced per
// routing call, never persisted.
type SectionCandidate struct {
	DomainKey     string   `json:"domain_key"`
	Confidence    float64  `json:"confidence"`
	MatchedTokens []string `json:"matched_tokens,omitempty"`
}
