package catalog

import (
	"errors"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnresolvedKey is returned when a requested domain key cannot be mapped
// to a registered extraction template after exhausting the fallback chain.
// Callers log and skip; this is never fatal.
var ErrUnresolvedKey = errors.New("domain key unresolved")

// acronymCasing is the fixed table of casing exceptions carried over from
// the upstream domain generator, which names some templates with uppercase
// acronyms and others title-cased (e.g. "Esmp" is NOT listed here because
// upstream kept it title-case). Maintained as data; do not infer a rule.
var acronymCasing = map[string]string{
	"Esms": "ESMS",
	"Lng":  "LNG",
}

// extensionSuffix is the standard suffix convention for sector-specific
// domain keys.
const extensionSuffix = "_specific_impacts"

// Template is one registered extraction template, resolved from a domain
// key. The name mirrors the upstream template class naming.
type Template struct {
	Name      string
	DomainKey string
	Title     string
	Subtopics []string
}

// Resolver maps requested domain keys to registered templates through an
// ordered chain of deterministic key transformations. Built once at catalog
// load; read-only afterwards.
type Resolver struct {
	byName map[string]Template
	chain  []func(key string) string
}

// NewResolver registers one template per catalog domain under its upstream
// template name and installs the fallback chain: exact match, append the
// extension suffix, strip it, then apply the acronym casing exceptions.
func NewResolver(c *Catalog) *Resolver {
	r := &Resolver{
		byName: make(map[string]Template, c.Len()),
		chain: []func(string) string{
			func(k string) string { return pascal(k) },
			func(k string) string { return pascal(k + extensionSuffix) },
			func(k string) string { return pascal(strings.TrimSuffix(k, extensionSuffix)) },
			func(k string) string { return applyAcronyms(pascal(k)) },
		},
	}
	for _, d := range c.Domains() {
		name := applyAcronyms(pascal(d.Key))
		r.byName[name] = Template{
			Name:      name,
			DomainKey: d.Key,
			Title:     d.Title,
			Subtopics: d.Subtopics,
		}
	}
	return r
}

// Resolve returns the template for the requested domain key, trying each
// transformation in the chain in order. An exhausted chain yields
// ErrUnresolvedKey, a recoverable per-call condition.
func (r *Resolver) Resolve(key string) (Template, error) {
	for _, transform := range r.chain {
		if t, ok := r.byName[transform(key)]; ok {
			return t, nil
		}
	}
	return Template{}, eris.Wrapf(ErrUnresolvedKey, "catalog: resolve %q", key)
}

// pascal converts a snake_case key to naive PascalCase: each underscore
// word is title-cased with no acronym awareness.
func pascal(key string) string {
	var b strings.Builder
	for _, word := range strings.Split(key, "_") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	return b.String()
}

// applyAcronyms rewrites title-cased words per the exception table.
func applyAcronyms(name string) string {
	for from, to := range acronymCasing {
		name = strings.ReplaceAll(name, from, to)
	}
	return name
}
