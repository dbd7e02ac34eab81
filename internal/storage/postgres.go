package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL.
// It also serves as a catalog source.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 10
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 2
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Name identifies the repository as a catalog source
func (r *PostgresRepository) Name() string {
	return "postgres"
}

// Load returns the whole catalog in catalog order
func (r *PostgresRepository) Load(ctx context.Context) ([]*models.Project, error) {
	return r.ListProjects(ctx)
}

// --- Projects ---

const projectColumns = `id, title, description, kind, category, language, genre, poster_url, trailer_url,
	funded_percentage, target_amount, raised_amount, time_left, tags, director, artist, perks, rating`

// ListProjects returns every project ordered by insertion position
func (r *PostgresRepository) ListProjects(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// GetProject retrieves a project by ID; nil when it does not exist
func (r *PostgresRepository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// UpsertProject inserts a project or updates it in place. Updates keep the
// project's position in the catalog.
func (r *PostgresRepository) UpsertProject(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			kind = EXCLUDED.kind,
			category = EXCLUDED.category,
			language = EXCLUDED.language,
			genre = EXCLUDED.genre,
			poster_url = EXCLUDED.poster_url,
			trailer_url = EXCLUDED.trailer_url,
			funded_percentage = EXCLUDED.funded_percentage,
			target_amount = EXCLUDED.target_amount,
			raised_amount = EXCLUDED.raised_amount,
			time_left = EXCLUDED.time_left,
			tags = EXCLUDED.tags,
			director = EXCLUDED.director,
			artist = EXCLUDED.artist,
			perks = EXCLUDED.perks,
			rating = EXCLUDED.rating,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		string(p.Kind),
		p.Category,
		p.Language,
		nullString(p.Genre),
		p.PosterURL,
		nullString(p.TrailerURL),
		p.FundedPercentage,
		p.TargetAmount,
		p.RaisedAmount,
		nullString(p.TimeLeft),
		nonNil(p.Tags),
		nullString(p.Director),
		nullString(p.Artist),
		nonNil(p.Perks),
		p.Rating,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}

	return nil
}

// DeleteProject removes a project by ID
func (r *PostgresRepository) DeleteProject(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	var kind string
	var genre, trailer, timeLeft, director, artist sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&kind,
		&p.Category,
		&p.Language,
		&genre,
		&p.PosterURL,
		&trailer,
		&p.FundedPercentage,
		&p.TargetAmount,
		&p.RaisedAmount,
		&timeLeft,
		&p.Tags,
		&director,
		&artist,
		&p.Perks,
		&p.Rating,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = models.Kind(kind)
	p.Genre = genre.String
	p.TrailerURL = trailer.String
	p.TimeLeft = timeLeft.String
	p.Director = director.String
	p.Artist = artist.String
	p.Tags = nonNil(p.Tags)
	p.Perks = nonNil(p.Perks)

	return &p, nil
}

// --- API Clients ---

// GetClientByApiKey retrieves an API client by its key; nil when unknown
func (r *PostgresRepository) GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error) {
	query := `
		SELECT id, name, api_key, is_active, created_at, last_used_at, permissions
		FROM api_clients
		WHERE api_key = $1
	`

	var client models.ApiClient
	var lastUsedAt sql.NullTime
	var permissionsJSON []byte

	err := r.pool.QueryRow(ctx, query, apiKey).Scan(
		&client.ID,
		&client.Name,
		&client.ApiKey,
		&client.IsActive,
		&client.CreatedAt,
		&lastUsedAt,
		&permissionsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get api client: %w", err)
	}

	if lastUsedAt.Valid {
		client.LastUsedAt = &lastUsedAt.Time
	}

	if permissionsJSON != nil {
		if err := json.Unmarshal(permissionsJSON, &client.Permissions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal permissions: %w", err)
		}
	}

	return &client, nil
}

// UpdateClientLastUsed updates the last_used_at timestamp for a client
func (r *PostgresRepository) UpdateClientLastUsed(ctx context.Context, apiKey string) error {
	query := `UPDATE api_clients SET last_used_at = NOW() WHERE api_key = $1`

	if _, err := r.pool.Exec(ctx, query, apiKey); err != nil {
		return fmt.Errorf("failed to update client last_used_at: %w", err)
	}

	return nil
}

// Helper functions for nullable values

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
