package model

// Tier classifies how a domain becomes applicable to a document.
type Tier string

const (
	// TierCore domains apply to every document.
	TierCore Tier = "core"
	// TierStandard domains apply whenever the generic compliance framework
	// is in effect (the eight numbered performance standards).
	TierStandard Tier = "standard"
	// TierExtension domains apply only to projects in their sector.
	TierExtension Tier = "extension"
)

// Domain is one extraction template: a named ESIA report topic with the
// keywords used to recognize it in section headings. Domains are immutable
// once the catalog is loaded.
type Domain struct {
	Key       string   `json:"key" yaml:"key"`
	Title     string   `json:"title" yaml:"title"`
	Tier      Tier     `json:"tier" yaml:"tier"`
	Sector    string   `json:"sector,omitempty" yaml:"sector,omitempty"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
	Subtopics []string `json:"subtopics,omitempty" yaml:"subtopics,omitempty"`
}
