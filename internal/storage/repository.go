package storage

import (
	"context"
	"errors"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// ErrNotFound is returned when a write targets a project that does not exist
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for catalog persistence
type Repository interface {
	// Projects
	ListProjects(ctx context.Context) ([]*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	UpsertProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	// API Clients
	GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error)
	UpdateClientLastUsed(ctx context.Context, apiKey string) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
