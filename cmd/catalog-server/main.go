package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pyushmatania/version-8-circle-sub002/internal/api"
	"github.com/pyushmatania/version-8-circle-sub002/internal/catalog"
	"github.com/pyushmatania/version-8-circle-sub002/internal/config"
	"github.com/pyushmatania/version-8-circle-sub002/internal/health"
	"github.com/pyushmatania/version-8-circle-sub002/internal/logging"
	"github.com/pyushmatania/version-8-circle-sub002/internal/poster"
	"github.com/pyushmatania/version-8-circle-sub002/internal/recent"
	"github.com/pyushmatania/version-8-circle-sub002/internal/search"
	"github.com/pyushmatania/version-8-circle-sub002/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()
	slog.SetDefault(logger)

	slog.Info("starting catalog-server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"catalog_source", cfg.Catalog.Source,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	registry := health.NewRegistry(2 * time.Second)

	// Database is optional for the yaml source; it then only serves API clients
	var repo *storage.PostgresRepository
	if cfg.Database.DSN != "" {
		slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
		if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		repo, err = storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
			DSN:          cfg.Database.DSN,
			MaxOpenConns: cfg.Database.MaxConns,
			MaxIdleConns: cfg.Database.MinConns,
		})
		if err != nil {
			slog.Error("failed to create database repository", "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		slog.Info("database connected successfully")

		pgChecker, err := health.NewPostgresChecker(cfg.Database.DSN)
		if err != nil {
			slog.Error("failed to create postgres checker", "error", err)
			os.Exit(1)
		}
		defer pgChecker.Close()
		registry.Register("postgres", pgChecker)
	}

	// Catalog source
	var source catalog.Source
	var writer search.ProjectWriter
	watchDir := ""
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		source, writer = repo, repo
	default:
		source = catalog.NewLoader(cfg.Catalog.Dir)
		if cfg.Catalog.Watch {
			watchDir = cfg.Catalog.Dir
		}
	}

	store := catalog.NewStore(source)
	n, err := store.Reload(initCtx)
	if err != nil {
		slog.Error("failed to load catalog", "source", source.Name(), "error", err)
		os.Exit(1)
	}
	if n == 0 {
		slog.Warn("catalog is empty", "source", source.Name())
	}

	// Recent searches
	var recentStore recent.Store = recent.NewMemoryStore(cfg.Redis.RecentLimit)
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		redisStore := recent.NewRedisStore(rdb, cfg.Redis.RecentKey, cfg.Redis.RecentLimit)
		if err := redisStore.HealthCheck(initCtx); err != nil {
			slog.Warn("redis unavailable at startup", "address", cfg.Redis.Address, "error", err)
		}
		registry.Register("redis", redisStore)
		recentStore = redisStore
	}

	validator := poster.NewValidator(poster.Config{
		Timeout:     cfg.Posters.Timeout,
		Retries:     cfg.Posters.Retries,
		Delay:       cfg.Posters.Delay,
		Placeholder: cfg.Posters.Placeholder,
	}, nil)

	service := search.NewService(store, search.Options{
		Recent:  recentStore,
		Posters: validator,
		Writer:  writer,
	})

	var clients api.ClientStore
	if repo != nil {
		clients = repo
	}
	auth := api.NewAuthMiddleware(clients, cfg.Auth.AdminAPIKey)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start catalog reloader
	reloader := catalog.NewReloader(service, cfg.Catalog.ReloadInterval, watchDir)
	reloader.Start(ctx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, service, registry, auth)
	httpServer := &http.Server{
		Addr:        cfg.Server.Address(),
		Handler:     server.Router(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()
	reloader.Wait()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("catalog-server stopped")
}
