package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

func TestReloader_Interval(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &fakeSource{projects: []*models.Project{{ID: "a"}}}
	store := NewStore(src)

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReloader(store, 10*time.Millisecond, "")
	r.Start(ctx)

	assert.Eventually(t, func() bool { return src.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, store.Len())

	cancel()
	r.Wait()
}

func TestReloader_WatchDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeFile(t, dir, "catalog.yaml", "projects:\n  - id: one\n    title: One\n    type: film\n")

	store := NewStore(NewLoader(dir))
	_, err := store.Reload(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReloader(store, 0, dir)
	r.Start(ctx)

	// Give the watcher a moment to register before writing
	time.Sleep(50 * time.Millisecond)
	writeFile(t, dir, "more.yaml", "projects:\n  - id: two\n    title: Two\n    type: music\n")

	assert.Eventually(t, func() bool { return store.Len() == 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	r.Wait()
}

func TestIsCatalogFile(t *testing.T) {
	assert.True(t, isCatalogFile(filepath.Join("x", "a.yaml")))
	assert.True(t, isCatalogFile("B.YML"))
	assert.False(t, isCatalogFile("a.yaml.swp"))
	assert.False(t, isCatalogFile("README"))
}
