// Package recent keeps the most recent free-text search terms
package recent

import (
	"context"
	"strings"
	"sync"
)

const (
	// DefaultKey is the storage key holding the JSON array of terms
	DefaultKey = "circles_recent_searches"
	// DefaultLimit is how many terms are kept
	DefaultLimit = 5
)

// Store persists recent search terms, newest first
type Store interface {
	Add(ctx context.Context, term string) ([]string, error)
	List(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// Push returns terms with term moved to the front. Blank terms are ignored,
// exact duplicates collapse to the newest entry and the list is cut to limit.
// The input slice is not modified.
func Push(terms []string, term string, limit int) []string {
	term = strings.TrimSpace(term)
	if limit <= 0 {
		limit = DefaultLimit
	}

	out := make([]string, 0, limit)
	if term != "" {
		out = append(out, term)
	}
	for _, t := range terms {
		if len(out) == limit {
			break
		}
		if t == term || t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu    sync.Mutex
	limit int
	terms []string
}

// NewMemoryStore creates an in-memory store keeping up to limit terms
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit}
}

// Add records a term and returns the updated list
func (s *MemoryStore) Add(ctx context.Context, term string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.terms = Push(s.terms, term, s.limit)
	return append([]string(nil), s.terms...), nil
}

// List returns the recorded terms, newest first
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.terms...), nil
}

// Clear forgets every term
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.terms = nil
	return nil
}
