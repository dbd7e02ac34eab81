package storage

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_clients.sql": {Data: []byte("SELECT 2;")},
		"001_init.sql":    {Data: []byte("SELECT 1;")},
		"003_more.sql":    {Data: []byte("SELECT 3;")},
		"README.md":       {Data: []byte("docs")},
		"old/004.sql":     {Data: []byte("SELECT 4;")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{"002_clients.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "003_more.sql"}, pending)
}

func TestEmbeddedMigrations(t *testing.T) {
	pending, err := pendingMigrations(MigrationsFS(""), nil)
	require.NoError(t, err)
	assert.Contains(t, pending, "001_init.sql")
}
