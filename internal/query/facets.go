package query

import (
	"strings"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// facet collects distinct values in first-seen order, keyed case-insensitively
type facet struct {
	seen   map[string]struct{}
	values []string
}

func newFacet() *facet {
	return &facet{
		seen:   make(map[string]struct{}),
		values: []string{models.Wildcard},
	}
}

func (f *facet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	key := strings.ToLower(v)
	if _, ok := f.seen[key]; ok {
		return
	}
	f.seen[key] = struct{}{}
	f.values = append(f.values, v)
}

// ExtractFacets returns the filter choices for a catalog. Each list starts
// with the wildcard followed by distinct values in catalog order; the first
// spelling of a value wins.
func ExtractFacets(catalog []*models.Project) models.Facets {
	categories, kinds, languages, genres := newFacet(), newFacet(), newFacet(), newFacet()

	for _, p := range catalog {
		if p == nil {
			continue
		}
		categories.add(p.Category)
		kinds.add(string(p.Kind))
		languages.add(p.Language)
		genres.add(p.Genre)
	}

	return models.Facets{
		Categories: categories.values,
		Kinds:      kinds.values,
		Languages:  languages.values,
		Genres:     genres.values,
	}
}
