package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

const testCatalog = `projects:
  - id: oppenheimer
    title: Oppenheimer
    description: The story of the atomic bomb
    type: film
    category: Hollywood
    language: English
    genre: Biography
    funded_percentage: 85
    target_amount: 1000
    raised_amount: 850
    time_left: 8 days
    director: Christopher Nolan
    rating: 4.8
  - id: arijit
    title: Arijit Live
    description: Unplugged sessions
    type: music
    category: Bollywood
    language: Hindi
    genre: Romantic
    funded_percentage: 40
    target_amount: 500
    raised_amount: 200
    artist: Arijit Singh
  - id: sacred
    title: Sacred Games 3
    description: Mumbai noir
    type: webseries
    category: Bollywood
    language: Hindi
    genre: Crime Thriller
    funded_percentage: 95
    target_amount: 2000
    raised_amount: 1900
    time_left: 3 days
    director: Anurag Kashyap
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.yaml"), []byte(testCatalog), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestSearchCommand(t *testing.T) {
	dir := writeCatalog(t)

	t.Run("table output", func(t *testing.T) {
		out, err := run(t, "--catalog-dir", dir, "search", "--category", "bollywood", "--sort", "fundedPercentage", "--order", "desc")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 projects")
		assert.Less(t, strings.Index(out, "Sacred Games 3"), strings.Index(out, "Arijit Live"))
	})

	t.Run("json output", func(t *testing.T) {
		out, err := run(t, "--catalog-dir", dir, "--json", "search", "atomic")
		require.NoError(t, err)

		var res models.Result
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.True(t, res.Active)
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "oppenheimer", res.Projects[0].ID)
	})

	t.Run("inactive search", func(t *testing.T) {
		out, err := run(t, "--catalog-dir", dir, "search")
		require.NoError(t, err)
		assert.Contains(t, out, "No active search")
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, err := run(t, "--catalog-dir", dir, "search", "x", "--sort", "popularity")
		assert.ErrorContains(t, err, "invalid query")
	})

	t.Run("missing catalog", func(t *testing.T) {
		_, err := run(t, "--catalog-dir", filepath.Join(dir, "missing"), "search", "x")
		assert.ErrorContains(t, err, "failed to load catalog")
	})
}

func TestFacetsAndTrendingCommands(t *testing.T) {
	dir := writeCatalog(t)

	out, err := run(t, "--catalog-dir", dir, "facets")
	require.NoError(t, err)
	assert.Contains(t, out, "categories: all, Hollywood, Bollywood")
	assert.Contains(t, out, "types:      all, film, music, webseries")

	out, err = run(t, "--catalog-dir", dir, "--json", "trending")
	require.NoError(t, err)
	var trending []models.Project
	require.NoError(t, json.Unmarshal([]byte(out), &trending))
	require.Len(t, trending, 3)
	assert.Equal(t, "sacred", trending[0].ID)
	assert.Equal(t, "oppenheimer", trending[1].ID)
}

func TestDatabaseCommandsRequireDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "DATABASE_DSN is required")

	_, err = run(t, "--catalog-dir", writeCatalog(t), "seed")
	assert.ErrorContains(t, err, "DATABASE_DSN is required")
}
