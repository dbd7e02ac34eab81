// Package catalog owns the project catalog: where it is loaded from and the
// immutable snapshot every query runs against.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// ErrEmptyCatalog is returned when a reload would replace a populated
// catalog with an empty one
var ErrEmptyCatalog = errors.New("catalog source returned no projects")

// Source loads the full catalog in catalog order
type Source interface {
	Load(ctx context.Context) ([]*models.Project, error)
	Name() string
}

// snapshot is never modified after it is published
type snapshot struct {
	projects []*models.Project
	byID     map[string]*models.Project
	loadedAt time.Time
}

// Store publishes catalog snapshots. Readers always see a complete
// snapshot; reloads swap it atomically.
type Store struct {
	source  Source
	current atomic.Pointer[snapshot]
}

// NewStore creates a store backed by source, starting with an empty catalog
func NewStore(source Source) *Store {
	s := &Store{source: source}
	s.current.Store(newSnapshot(nil))
	return s
}

func newSnapshot(projects []*models.Project) *snapshot {
	byID := make(map[string]*models.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	return &snapshot{
		projects: projects,
		byID:     byID,
		loadedAt: time.Now().UTC(),
	}
}

// Reload loads the catalog from the source and publishes it. On failure the
// previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, fmt.Errorf("catalog store has no source")
	}

	projects, err := s.source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog from %s: %w", s.source.Name(), err)
	}

	if len(projects) == 0 && len(s.Projects()) > 0 {
		return 0, ErrEmptyCatalog
	}

	s.Replace(projects)
	slog.Info("catalog snapshot published", "source", s.source.Name(), "projects", len(projects))
	return len(projects), nil
}

// Replace publishes projects as the new snapshot. The slice is owned by the
// store afterwards.
func (s *Store) Replace(projects []*models.Project) {
	s.current.Store(newSnapshot(projects))
}

// Projects returns the current catalog in catalog order. Callers must not
// modify the returned slice or its records.
func (s *Store) Projects() []*models.Project {
	return s.current.Load().projects
}

// Get returns a project by ID, or nil
func (s *Store) Get(id string) *models.Project {
	return s.current.Load().byID[id]
}

// Len returns the number of projects in the current snapshot
func (s *Store) Len() int {
	return len(s.current.Load().projects)
}

// LoadedAt returns when the current snapshot was published
func (s *Store) LoadedAt() time.Time {
	return s.current.Load().loadedAt
}

// Source returns the store's catalog source
func (s *Store) Source() Source {
	return s.source
}
