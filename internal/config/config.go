package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Catalog sources
const (
	SourceYAML     = "yaml"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the catalog server
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Posters  PostersConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// CatalogConfig selects where the catalog comes from and how it is refreshed
type CatalogConfig struct {
	Source         string
	Dir            string
	ReloadInterval time.Duration
	Watch          bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	DSN           string
	MaxConns      int32
	MinConns      int32
	MigrationsDir string
}

// RedisConfig holds Redis configuration. An empty address keeps recent
// searches in memory.
type RedisConfig struct {
	Address     string
	Password    string
	DB          int
	RecentKey   string
	RecentLimit int
}

// PostersConfig holds poster validation configuration
type PostersConfig struct {
	Timeout     time.Duration
	Retries     int
	Delay       time.Duration
	Placeholder string
}

// AuthConfig holds admin API configuration
type AuthConfig struct {
	// AdminAPIKey is accepted in addition to keys stored in the database
	AdminAPIKey string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Catalog: CatalogConfig{
			Source:         strings.ToLower(getEnv("CATALOG_SOURCE", SourceYAML)),
			Dir:            getEnv("CATALOG_DIR", "./catalog"),
			ReloadInterval: getEnvAsDuration("CATALOG_RELOAD_INTERVAL", 0),
			Watch:          getEnvAsBool("CATALOG_WATCH", true),
		},
		Database: DatabaseConfig{
			DSN:           getEnv("DATABASE_DSN", ""),
			MaxConns:      int32(getEnvAsInt("DATABASE_MAX_CONNS", 10)),
			MinConns:      int32(getEnvAsInt("DATABASE_MIN_CONNS", 2)),
			MigrationsDir: getEnv("DATABASE_MIGRATIONS_DIR", ""),
		},
		Redis: RedisConfig{
			Address:     getEnv("REDIS_ADDRESS", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			RecentKey:   getEnv("RECENT_SEARCHES_KEY", "circles_recent_searches"),
			RecentLimit: getEnvAsInt("RECENT_SEARCHES_LIMIT", 5),
		},
		Posters: PostersConfig{
			Timeout:     getEnvAsDuration("POSTER_TIMEOUT", 5*time.Second),
			Retries:     getEnvAsInt("POSTER_RETRIES", 3),
			Delay:       getEnvAsDuration("POSTER_DELAY", 250*time.Millisecond),
			Placeholder: getEnv("POSTER_PLACEHOLDER", "https://placehold.co/600x900?text=Circles"),
		},
		Auth: AuthConfig{
			AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
		},
		Log: LogConfig{
			Level:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Catalog.Source {
	case SourceYAML:
		if c.Catalog.Dir == "" {
			return fmt.Errorf("catalog dir is required for the yaml source")
		}
	case SourcePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown catalog source: %q", c.Catalog.Source)
	}

	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("invalid catalog reload interval: %s", c.Catalog.ReloadInterval)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database min conns (%d) exceeds max conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Redis.RecentLimit < 1 {
		return fmt.Errorf("invalid recent searches limit: %d", c.Redis.RecentLimit)
	}

	if c.Posters.Retries < 1 {
		return fmt.Errorf("invalid poster retries: %d", c.Posters.Retries)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}

	return nil
}

// Address returns the HTTP listen address
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
