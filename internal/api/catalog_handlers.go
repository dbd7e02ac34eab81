package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
	"github.com/pyushmatania/version-8-circle-sub002/internal/search"
)

// Catalog handlers: search, lookups and recent terms

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := s.service.Search(r.Context(), q)
	if err != nil {
		if errors.Is(err, search.ErrInvalidQuery) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		slog.Error("search failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "search failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// parseQuery builds a query from URL parameters. Absent parameters keep
// their wildcard defaults.
func parseQuery(values url.Values) (models.Query, error) {
	q := models.NewQuery()
	q.Term = values.Get("q")

	if v := values.Get("category"); v != "" {
		q.Category = v
	}
	if v := values.Get("kind"); v != "" {
		q.Kind = v
	} else if v := values.Get("type"); v != "" {
		q.Kind = v
	}
	if v := values.Get("language"); v != "" {
		q.Language = v
	}
	if v := values.Get("genre"); v != "" {
		q.Genre = v
	}

	var err error
	if q.Funding.Min, err = parseBound(values, "min_funding", q.Funding.Min); err != nil {
		return q, err
	}
	if q.Funding.Max, err = parseBound(values, "max_funding", q.Funding.Max); err != nil {
		return q, err
	}

	q.SortField = models.SortField(values.Get("sort"))
	q.SortOrder = models.SortOrder(values.Get("order"))

	return q.Normalize()
}

func parseBound(values url.Values, key string, def float64) (float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, err := s.service.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "project not found")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (s *Server) handleGetPoster(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := s.service.Poster(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "project not found")
		return
	}

	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.Facets())
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	projects := s.service.Trending()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"total":    len(projects),
	})
}

func (s *Server) handleListRecent(w http.ResponseWriter, r *http.Request) {
	terms, err := s.service.Recent(r.Context())
	if err != nil {
		slog.Error("failed to list recent searches", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list recent searches")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"searches": terms,
	})
}

func (s *Server) handleClearRecent(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearRecent(r.Context()); err != nil {
		slog.Error("failed to clear recent searches", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear recent searches")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "recent searches cleared",
	})
}
