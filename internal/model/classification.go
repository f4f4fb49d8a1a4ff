package model

// GeneralProjectType is the fallback category used when no project-type
// keywords are found in a document's opening chunks. The domain loader
// treats it as "core + standard only, no extensions".
const GeneralProjectType = "general"

// TypeAlternative is a runner-up project type from classification.
type TypeAlternative struct {
	TypeKey    string  `json:"type_key"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResult is the output of project-type classification for one
// document. It is produced once per document and not mutated afterwards.
type ClassificationResult struct {
	ProjectType     string            `json:"project_type"`
	Confidence      float64           `json:"confidence"`
	MatchedKeywords []string          `json:"matched_keywords,omitempty"`
	Sector          string            `json:"sector,omitempty"`
	Alternatives    []TypeAlternative `json:"alternatives,omitempty"`
}

// IsGeneral reports whether classification fell back to the general
// category (no keyword hits).
func (r ClassificationResult) IsGeneral() bool {
	return r.ProjectType == GeneralProjectType
}
