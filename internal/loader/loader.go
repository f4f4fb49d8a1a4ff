// Package loader composes the applicable domain set for one document run:
// core ∪ standard ∪ the extensions tagged for the classified project sector.
package loader

import (
	"go.uber.org/zap"

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/classify"
	"github.com/veridian-group/esia-cli/internal/model"
)

// Set is the domain subset applicable to one document, in catalog
// declaration order. Created once per document after classification and
// read-only afterwards.
type Set struct {
	domains []model.Domain
	keys    map[string]struct{}
}

// Domains returns the applicable domains in catalog order. Callers must not
// mutate the returned slice.
func (s *Set) Domains() []model.Domain {
	return s.domains
}

// Contains reports whether key is in the set.
func (s *Set) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of applicable domains.
func (s *Set) Len() int {
	return len(s.domains)
}

// ForType composes the applicable domain set for a classified project type.
// Core and standard domains are always included; extension domains are
// included when their sector tag equals the project type's sector. The
// general fallback type carries no sector, so it gets no extensions.
// Pure composition: no I/O, deterministic for a given catalog and type.
func ForType(projectType string, cat *catalog.Catalog) *Set {
	sector := classify.SectorOf(projectType)

	s := &Set{keys: make(map[string]struct{})}
	for _, d := range cat.Domains() {
		switch d.Tier {
		case model.TierCore, model.TierStandard:
			// always applicable
		case model.TierExtension:
			if sector == "" || d.Sector != sector {
				continue
			}
		}
		s.domains = append(s.domains, d)
		s.keys[d.Key] = struct{}{}
	}
	return s
}

// FromChunks classifies the document from its opening chunks and composes
// the applicable set in one step. It is the entry point used by the
// extraction orchestrator. A chunkWindow of zero or less uses the
// classifier default.
func FromChunks(chunks []model.Chunk, cat *catalog.Catalog, chunkWindow int) (*Set, model.ClassificationResult) {
	result := classify.ClassifyWindow(chunks, chunkWindow)
	set := ForType(result.ProjectType, cat)

	zap.L().Info("loader: composed applicable domain set",
		zap.String("project_type", result.ProjectType),
		zap.Float64("confidence", result.Confidence),
		zap.String("sector", result.Sector),
		zap.Int("domains", set.Len()),
	)

	return set, result
}
