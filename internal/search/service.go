// Package search is the catalog's application service: it runs queries
// against the published snapshot and keeps the surrounding state (recent
// terms, poster checks, admin edits) consistent with it.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/pyushmatania/version-8-circle-sub002/internal/catalog"
	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
	"github.com/pyushmatania/version-8-circle-sub002/internal/poster"
	"github.com/pyushmatania/version-8-circle-sub002/internal/query"
	"github.com/pyushmatania/version-8-circle-sub002/internal/recent"
	"github.com/pyushmatania/version-8-circle-sub002/internal/storage"
)

// Common errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidQuery    = errors.New("invalid query")
	ErrInvalidProject  = errors.New("invalid project")
	ErrReadOnlyCatalog = errors.New("catalog source is read-only")
)

// ProjectWriter persists admin edits to the catalog
type ProjectWriter interface {
	UpsertProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error
}

// Service runs catalog operations
type Service struct {
	store   *catalog.Store
	recent  recent.Store
	posters *poster.Validator
	writer  ProjectWriter
}

// Options holds the optional collaborators of a Service
type Options struct {
	// Recent defaults to an in-memory store
	Recent recent.Store
	// Posters defaults to a validator with default config
	Posters *poster.Validator
	// Writer is nil when the catalog cannot be edited
	Writer ProjectWriter
}

// NewService creates a Service over store
func NewService(store *catalog.Store, opts Options) *Service {
	if opts.Recent == nil {
		opts.Recent = recent.NewMemoryStore(recent.DefaultLimit)
	}
	if opts.Posters == nil {
		opts.Posters = poster.NewValidator(poster.Config{}, nil)
	}
	catalogProjects.Set(float64(store.Len()))

	return &Service{
		store:   store,
		recent:  opts.Recent,
		posters: opts.Posters,
		writer:  opts.Writer,
	}
}

// Search evaluates q against the current snapshot. Non-blank terms are
// remembered as recent searches.
func (s *Service) Search(ctx context.Context, q models.Query) (models.Result, error) {
	result, err := s.Evaluate(q)
	if err != nil {
		return result, err
	}

	if term := strings.TrimSpace(q.Term); term != "" {
		if _, err := s.recent.Add(ctx, term); err != nil {
			slog.Warn("failed to record recent search", "term", term, "error", err)
		}
	}

	return result, nil
}

// Evaluate runs q without recording it
func (s *Service) Evaluate(q models.Query) (models.Result, error) {
	if err := q.Validate(); err != nil {
		return models.Result{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	start := time.Now()
	result := query.Evaluate(s.store.Projects(), q)
	searchDuration.Observe(time.Since(start).Seconds())
	searchesTotal.WithLabelValues(outcome(result.Active, result.Total)).Inc()
	if result.Active {
		searchResults.Observe(float64(result.Total))
	}

	return result, nil
}

// Facets returns the filter values present in the catalog
func (s *Service) Facets() models.Facets {
	return query.ExtractFacets(s.store.Projects())
}

// Trending returns the most-funded projects
func (s *Service) Trending() []*models.Project {
	return query.Trending(s.store.Projects())
}

// Get returns a project by ID
func (s *Service) Get(id string) (*models.Project, error) {
	p := s.store.Get(id)
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Poster resolves a displayable poster URL for a project
func (s *Service) Poster(ctx context.Context, id string) (poster.Resolution, error) {
	p, err := s.Get(id)
	if err != nil {
		return poster.Resolution{}, err
	}
	return s.posters.Resolve(ctx, p), nil
}

// Recent returns recent search terms, newest first
func (s *Service) Recent(ctx context.Context) ([]string, error) {
	terms, err := s.recent.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent searches: %w", err)
	}
	return terms, nil
}

// ClearRecent forgets all recent search terms
func (s *Service) ClearRecent(ctx context.Context) error {
	if err := s.recent.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear recent searches: %w", err)
	}
	return nil
}

// Reload republishes the catalog from its source
func (s *Service) Reload(ctx context.Context) (int, error) {
	n, err := s.store.Reload(ctx)
	if err != nil {
		return 0, err
	}
	catalogProjects.Set(float64(n))
	return n, nil
}

// Status describes the published snapshot
type Status struct {
	Source   string    `json:"source"`
	Projects int       `json:"projects"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Status reports the current snapshot
func (s *Service) Status() Status {
	st := Status{
		Projects: s.store.Len(),
		LoadedAt: s.store.LoadedAt(),
	}
	if src := s.store.Source(); src != nil {
		st.Source = src.Name()
	}
	return st
}

// Ping checks the service can answer queries
func (s *Service) Ping(ctx context.Context) error {
	if s.store.Len() == 0 {
		return catalog.ErrEmptyCatalog
	}
	return ctx.Err()
}

// UpsertProject stores p and republishes the catalog
func (s *Service) UpsertProject(ctx context.Context, p *models.Project) error {
	if s.writer == nil {
		return ErrReadOnlyCatalog
	}
	if err := ValidateProject(p); err != nil {
		return err
	}
	if err := s.writer.UpsertProject(ctx, p); err != nil {
		return fmt.Errorf("failed to store project: %w", err)
	}

	slog.Info("project upserted", "project_id", p.ID, "title", p.Title)
	return s.reloadAfterEdit(ctx)
}

// DeleteProject removes a project and republishes the catalog
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if s.writer == nil {
		return ErrReadOnlyCatalog
	}
	if err := s.writer.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	slog.Info("project deleted", "project_id", id)
	return s.reloadAfterEdit(ctx)
}

func (s *Service) reloadAfterEdit(ctx context.Context) error {
	_, err := s.Reload(ctx)
	if errors.Is(err, catalog.ErrEmptyCatalog) {
		// The last project was deleted on purpose.
		s.store.Replace(nil)
		catalogProjects.Set(0)
		return nil
	}
	return err
}

// ValidateProject checks an edited record before it is stored
func ValidateProject(p *models.Project) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: missing body", ErrInvalidProject)
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidProject)
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidProject)
	case !p.Kind.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidProject, p.Kind)
	case p.Director != "" && p.Artist != "":
		return fmt.Errorf("%w: director and artist are mutually exclusive", ErrInvalidProject)
	case !validAmount(p.TargetAmount) || !validAmount(p.RaisedAmount):
		return fmt.Errorf("%w: amounts must be non-negative", ErrInvalidProject)
	case !validAmount(p.FundedPercentage) || p.FundedPercentage > 100:
		return fmt.Errorf("%w: fundedPercentage must be within [0, 100]", ErrInvalidProject)
	case p.Rating != nil && !validAmount(*p.Rating):
		return fmt.Errorf("%w: rating must be non-negative", ErrInvalidProject)
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
