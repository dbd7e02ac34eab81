package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresChecker probes PostgreSQL over a dedicated database/sql handle,
// separate from the repository pool, so a saturated pool does not read as
// an outage
type PostgresChecker struct {
	db *sql.DB
}

// NewPostgresChecker opens a small connection pool for health probes
func NewPostgresChecker(dsn string) (*PostgresChecker, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &PostgresChecker{db: db}, nil
}

// HealthCheck runs a trivial query
func (c *PostgresChecker) HealthCheck(ctx context.Context) error {
	var one int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("postgres health check failed: %w", err)
	}
	return nil
}

// Close closes the probe connection
func (c *PostgresChecker) Close() error {
	return c.db.Close()
}
