package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

func TestExtractFacets(t *testing.T) {
	facets := ExtractFacets(sampleCatalog())

	assert.Equal(t, []string{"all", "Hollywood", "Bollywood", "OTT", "Indie"}, facets.Categories)
	assert.Equal(t, []string{"all", "film", "music", "webseries"}, facets.Kinds)
	assert.Equal(t, []string{"all", "English", "Hindi"}, facets.Languages)
	assert.Equal(t, []string{"all", "Biography, Drama", "Comedy, Fantasy", "Romantic", "Drama"}, facets.Genres)
}

func TestExtractFacets_CollapsesCaseVariants(t *testing.T) {
	catalog := []*models.Project{
		{Category: "Hollywood"},
		{Category: "hollywood"},
		{Category: " HOLLYWOOD "},
	}

	facets := ExtractFacets(catalog)
	assert.Equal(t, []string{"all", "Hollywood"}, facets.Categories)
}

func TestExtractFacets_EmptyCatalog(t *testing.T) {
	facets := ExtractFacets(nil)

	assert.Equal(t, []string{"all"}, facets.Categories)
	assert.Equal(t, []string{"all"}, facets.Kinds)
	assert.Equal(t, []string{"all"}, facets.Languages)
	assert.Equal(t, []string{"all"}, facets.Genres)
}
