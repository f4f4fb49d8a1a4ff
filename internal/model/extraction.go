package model

import "time"

// Fields is the structured field-value mapping returned by the extraction
// engine for one (section, domain) pair. A nil or empty map means the engine
// found no information for that domain in the section.
type Fields map[string]any

// DomainFacts holds the extraction outcome for one domain within a section.
type DomainFacts struct {
	DomainKey  string  `json:"domain_key"`
	Confidence float64 `json:"confidence"`
	Fields     Fields  `json:"fields,omitempty"`
	Failed     bool    `json:"failed,omitempty"`
	FailReason string  `json:"fail_reason,omitempty"`
}

// SectionExtraction aggregates everything extracted from one document
// section (all chunks sharing a heading).
type SectionExtraction struct {
	Section     string             `json:"section"`
	Page        int                `json:"page"`
	Candidates  []SectionCandidate `json:"candidates,omitempty"`
	Facts       []DomainFacts      `json:"facts,omitempty"`
	MultiDomain bool               `json:"multi_domain,omitempty"`
}

// RunStatus tracks the lifecycle of a stored extraction run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one extraction run over a single document.
type Run struct {
	ID             string               `json:"id"`
	Document       string               `json:"document"`
	Status         RunStatus            `json:"status"`
	Classification ClassificationResult `json:"classification"`
	Result         *RunResult           `json:"result,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// RunResult is the aggregate outcome of one extraction run.
type RunResult struct {
	Sections        []SectionExtraction `json:"sections"`
	SectionsRouted  int                 `json:"sections_routed"`
	SectionsSkipped int                 `json:"sections_skipped"`
	FactsExtracted  int                 `json:"facts_extracted"`
	FactsFailed     int                 `json:"facts_failed"`
	Usage           TokenUsage          `json:"usage"`
	DurationMs      int64               `json:"duration_ms"`
}

// TokenUsage tracks token consumption across extraction engine calls.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add merges token usage from another instance.
func (t *TokenUsage) Add(other TokenUsage) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
}
