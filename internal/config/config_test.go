package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, SourceYAML, cfg.Catalog.Source)
	assert.Equal(t, "./catalog", cfg.Catalog.Dir)
	assert.Equal(t, "circles_recent_searches", cfg.Redis.RecentKey)
	assert.Equal(t, 5, cfg.Redis.RecentLimit)
	assert.Equal(t, 3, cfg.Posters.Retries)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("DATABASE_DSN", "postgres://circles@localhost/circles")
	t.Setenv("CATALOG_RELOAD_INTERVAL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://circles.app, ,https://admin.circles.app")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("POSTER_RETRIES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, SourcePostgres, cfg.Catalog.Source)
	assert.Equal(t, 30*time.Second, cfg.Catalog.ReloadInterval)
	assert.Equal(t, []string{"https://circles.app", "https://admin.circles.app"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Posters.Retries, "unparseable values fall back to the default")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Host: "localhost", Port: 8080},
			Catalog:  CatalogConfig{Source: SourceYAML, Dir: "./catalog"},
			Database: DatabaseConfig{MaxConns: 10, MinConns: 2},
			Redis:    RedisConfig{RecentLimit: 5},
			Posters:  PostersConfig{Retries: 1},
			Log:      LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"unknown source", func(c *Config) { c.Catalog.Source = "s3" }, "unknown catalog source"},
		{"yaml without dir", func(c *Config) { c.Catalog.Dir = "" }, "catalog dir is required"},
		{"postgres without dsn", func(c *Config) { c.Catalog.Source = SourcePostgres }, "database DSN is required"},
		{"negative interval", func(c *Config) { c.Catalog.ReloadInterval = -time.Second }, "invalid catalog reload interval"},
		{"pool bounds", func(c *Config) { c.Database.MinConns = 20 }, "exceeds max conns"},
		{"recent limit", func(c *Config) { c.Redis.RecentLimit = 0 }, "invalid recent searches limit"},
		{"poster retries", func(c *Config) { c.Posters.Retries = 0 }, "invalid poster retries"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
