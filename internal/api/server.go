package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pyushmatania/version-8-circle-sub002/internal/config"
	"github.com/pyushmatania/version-8-circle-sub002/internal/health"
	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
	"github.com/pyushmatania/version-8-circle-sub002/internal/search"
)

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	service        *search.Service
	health         *health.Registry
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	service *search.Service,
	registry *health.Registry,
	auth *AuthMiddleware,
) *Server {
	if registry == nil {
		registry = health.NewRegistry(0)
	}
	s := &Server{
		config:         cfg,
		service:        service,
		health:         registry,
		authMiddleware: auth,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Operational endpoints
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// The live socket is long-lived and must not inherit the timeout
		r.Get("/live", s.handleLive)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Get("/projects", s.handleSearch)
			r.Get("/projects/{id}", s.handleGetProject)
			r.Get("/projects/{id}/poster", s.handleGetPoster)
			r.Get("/facets", s.handleFacets)
			r.Get("/trending", s.handleTrending)

			r.Get("/searches/recent", s.handleListRecent)
			r.Delete("/searches/recent", s.handleClearRecent)

			// Admin routes (protected by authentication)
			r.Route("/admin", func(r chi.Router) {
				r.Use(s.authMiddleware.Authenticate)

				r.With(s.authMiddleware.RequirePermission(models.PermCatalogRead)).Get("/status", s.handleStatus)
				r.With(s.authMiddleware.RequirePermission(models.PermCatalogWrite)).Post("/reload", s.handleReload)
				r.With(s.authMiddleware.RequirePermission(models.PermCatalogWrite)).Put("/projects/{id}", s.handleUpsertProject)
				r.With(s.authMiddleware.RequirePermission(models.PermCatalogWrite)).Delete("/projects/{id}", s.handleDeleteProject)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
