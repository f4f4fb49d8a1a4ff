// Package classify implements project-type classification from a document's
// opening chunks by keyword frequency scoring.
package classify

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/veridian-group/esia-cli/internal/model"
)

// DefaultChunkWindow bounds the scan to the title/executive-summary region.
// The project type is declared in the opening pages; scanning further risks
// false positives from comparison tables in later sections.
const DefaultChunkWindow = 10

const (
	// saturationHits is the distinct-keyword count at which confidence
	// saturates at 1.0. One generic keyword should not produce full
	// confidence, but short documents cannot be expected to repeat many.
	saturationHits = 3

	// maxAlternatives caps the runner-up list.
	maxAlternatives = 3
)

type typeScore struct {
	pt      ProjectType
	order   int
	matched []string
}

func (s typeScore) confidence() float64 {
	c := float64(len(s.matched)) / float64(saturationHits)
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// Classify scores the first DefaultChunkWindow chunks against the
// project-type keyword dictionary and returns the best-guess category with
// alternatives. Pure function of its input and the static dictionary; no
// side effects.
func Classify(chunks []model.Chunk) model.ClassificationResult {
	return ClassifyWindow(chunks, DefaultChunkWindow)
}

// ClassifyWindow is Classify with an explicit chunk window. A window of
// zero or less falls back to the default.
func ClassifyWindow(chunks []model.Chunk, chunkWindow int) model.ClassificationResult {
	if chunkWindow <= 0 {
		chunkWindow = DefaultChunkWindow
	}
	window := chunks
	if len(window) > chunkWindow {
		window = window[:chunkWindow]
	}

	var b strings.Builder
	for _, ch := range window {
		b.WriteString(strings.ToLower(ch.Text))
		b.WriteByte('\n')
	}
	corpus := b.String()

	var scores []typeScore
	for i, pt := range projectTypes {
		var matched []string
		for _, kw := range pt.Keywords {
			if strings.Contains(corpus, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			scores = append(scores, typeScore{pt: pt, order: i, matched: matched})
		}
	}

	if len(scores) == 0 {
		zap.L().Debug("classify: no project-type keywords found, using general fallback")
		return model.ClassificationResult{
			ProjectType: model.GeneralProjectType,
			Confidence:  0.0,
		}
	}

	// Highest confidence first; ties go to the earlier declaration.
	sort.SliceStable(scores, func(i, j int) bool {
		ci, cj := scores[i].confidence(), scores[j].confidence()
		if ci != cj {
			return ci > cj
		}
		return scores[i].order < scores[j].order
	})

	winner := scores[0]
	result := model.ClassificationResult{
		ProjectType:     winner.pt.Key,
		Confidence:      winner.confidence(),
		MatchedKeywords: winner.matched,
		Sector:          winner.pt.Sector,
	}
	for _, s := range scores[1:] {
		if len(result.Alternatives) == maxAlternatives {
			break
		}
		result.Alternatives = append(result.Alternatives, model.TypeAlternative{
			TypeKey:    s.pt.Key,
			Confidence: s.confidence(),
		})
	}

	zap.L().Debug("classify: project type classified",
		zap.String("project_type", result.ProjectType),
		zap.Float64("confidence", result.Confidence),
		zap.Strings("matched_keywords", result.MatchedKeywords),
	)

	return result
}
