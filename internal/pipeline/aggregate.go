package pipeline

import (
	"github.com/veridian-group/esia-cli/internal/model"
)

// DomainFact pairs extracted facts with the section they came from, for
// consumers that view a run by domain rather than by section.
type DomainFact struct {
	Section string
	Page    int
	Facts   model.DomainFacts
}

// AggregateByDomain regroups a run's section results by domain key. Order
// within each domain follows section order; domains with only failed
// extractions are still present so reports can surface them.
func AggregateByDomain(sections []model.SectionExtraction) map[string][]DomainFact {
	byDomain := make(map[string][]DomainFact)
	for _, se := range sections {
		for _, f := range se.Facts {
			byDomain[f.DomainKey] = append(byDomain[f.DomainKey], DomainFact{
				Section: se.Section,
				Page:    se.Page,
				Facts:   f,
			})
		}
	}
	return byDomain
}
