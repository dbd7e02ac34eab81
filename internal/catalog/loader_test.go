package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadSampleCatalog(t *testing.T) {
	// Use the catalog shipped with the repository
	catalogDir := filepath.Join("..", "..", "catalog")
	if _, err := os.Stat(catalogDir); os.IsNotExist(err) {
		t.Skip("catalog directory not found, skipping")
	}

	projects, err := NewLoader(catalogDir).Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, projects)

	assert.Equal(t, "oppenheimer", projects[0].ID, "file order is catalog order")

	seen := make(map[string]bool)
	for _, p := range projects {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.True(t, p.Kind.Valid(), "project %s has kind %q", p.ID, p.Kind)
		assert.False(t, p.Director != "" && p.Artist != "", "project %s has both director and artist", p.ID)
		assert.GreaterOrEqual(t, p.FundedPercentage, 0.0)
		assert.LessOrEqual(t, p.FundedPercentage, 100.0)
	}
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", `
projects:
  - id: second
    title: Second
    type: music
    artist: Someone
`)
	writeFile(t, dir, "a.yml", `
projects:
  - id: first
    title: First
    type: Film
    category: Hollywood
    funded_percentage: 150
    target_amount: -10
    rating: 3.5
    tags: [one, one]
  - id: second
    title: Duplicate of a later file's id wins here
    type: film
`)
	writeFile(t, dir, "notes.txt", "ignored")

	projects, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)

	first := projects[0]
	assert.Equal(t, "first", first.ID)
	assert.Equal(t, models.KindFilm, first.Kind)
	assert.Equal(t, 100.0, first.FundedPercentage, "funded percentage clamped")
	assert.Equal(t, 0.0, first.TargetAmount, "negative amounts zeroed")
	require.NotNil(t, first.Rating)
	assert.Equal(t, 3.5, *first.Rating)
	assert.Equal(t, []string{"one", "one"}, first.Tags, "tags are not deduplicated")
	assert.Equal(t, []string{}, first.Perks)

	// a.yml sorts before b.yaml, so its "second" is kept and b.yaml's dropped
	assert.Equal(t, "second", projects[1].ID)
	assert.Equal(t, models.KindFilm, projects[1].Kind)
}

func TestParse_SkipsInvalidRecords(t *testing.T) {
	projects, err := Parse([]byte(`
projects:
  - title: ""
    type: film
  - title: Unknown type
    type: podcast
  - title: Both creators
    type: film
    director: A
    artist: B
  - title: Valid without id
    type: webseries
`), "inline")
	require.NoError(t, err)
	require.Len(t, projects, 1)

	assert.Equal(t, "Valid without id", projects[0].Title)
	assert.NotEmpty(t, projects[0].ID, "missing id is generated")
	assert.Nil(t, projects[0].Rating)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("projects: [unterminated"), "inline")
	assert.Error(t, err)
}

func TestLoader_MissingDirectory(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing")).Load(context.Background())
	assert.Error(t, err)
}
