// Package catalog owns the static registry of extraction domains, the
// keyword index built from it, and template-key resolution.
package catalog

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/veridian-group/esia-cli/internal/model"
)

//go:embed domains.yaml
var domainsYAML []byte

// Catalog is the immutable, loaded-once registry of extraction domains.
// Declaration order is preserved: it breaks ties in routing and
// classification.
type Catalog struct {
	domains []model.Domain
	byKey   map[string]int
}

type catalogFile struct {
	Domains []model.Domain `yaml:"domains"`
}

// Load deserializes the embedded domain definitions. A malformed catalog is
// a configuration error: startup must abort rather than route against it.
func Load() (*Catalog, error) {
	return Parse(domainsYAML)
}

// Parse deserializes domain definitions from an external source. Load is
// Parse over the embedded definition set.
func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, eris.Wrap(err, "catalog: parse domain definitions")
	}
	if len(file.Domains) == 0 {
		return nil, eris.New("catalog: no domains defined")
	}

	c := &Catalog{
		domains: file.Domains,
		byKey:   make(map[string]int, len(file.Domains)),
	}
	for i, d := range file.Domains {
		if d.Key == "" {
			return nil, eris.Errorf("catalog: domain at position %d has no key", i)
		}
		if _, dup := c.byKey[d.Key]; dup {
			return nil, eris.Errorf("catalog: duplicate domain key %q", d.Key)
		}
		if len(d.Keywords) == 0 {
			return nil, eris.Errorf("catalog: domain %q has an empty keyword list", d.Key)
		}
		switch d.Tier {
		case model.TierCore, model.TierStandard:
			if d.Sector != "" {
				return nil, eris.Errorf("catalog: %s domain %q must not carry a sector tag", d.Tier, d.Key)
			}
		case model.TierExtension:
			if d.Sector == "" {
				return nil, eris.Errorf("catalog: extension domain %q has no sector tag", d.Key)
			}
		default:
			return nil, eris.Errorf("catalog: domain %q has unknown tier %q", d.Key, d.Tier)
		}
		c.byKey[d.Key] = i
	}

	return c, nil
}

// Domains returns all domains in declaration order. Callers must not mutate
// the returned slice.
func (c *Catalog) Domains() []model.Domain {
	return c.domains
}

// Get returns the domain for key, if present.
func (c *Catalog) Get(key string) (model.Domain, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return model.Domain{}, false
	}
	return c.domains[i], true
}

// Order returns the declaration position of key, or len(catalog) for
// unknown keys so they always sort last.
func (c *Catalog) Order(key string) int {
	if i, ok := c.byKey[key]; ok {
		return i
	}
	return len(c.domains)
}

// Len returns the number of domains in the catalog.
func (c *Catalog) Len() int {
	return len(c.domains)
}
