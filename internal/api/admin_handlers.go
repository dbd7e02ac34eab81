package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
	"github.com/pyushmatania/version-8-circle-sub002/internal/search"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.Status())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.Reload(r.Context())
	if err != nil {
		slog.Error("catalog reload failed", "error", err)
		respondError(w, http.StatusInternalServerError, "reload_failed", err.Error())
		return
	}

	if client := ClientFromContext(r.Context()); client != nil {
		slog.Info("catalog reloaded via api", "client", client.Name, "projects", n)
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"projects": n,
	})
}

func (s *Server) handleUpsertProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if project.ID == "" {
		project.ID = id
	}
	if project.ID != id {
		respondError(w, http.StatusBadRequest, "validation_error", "body id does not match path id")
		return
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}
	if project.Perks == nil {
		project.Perks = []string{}
	}

	if err := s.service.UpsertProject(r.Context(), &project); err != nil {
		switch {
		case errors.Is(err, search.ErrInvalidProject):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, search.ErrReadOnlyCatalog):
			respondError(w, http.StatusConflict, "read_only", "catalog source does not accept edits")
		default:
			slog.Error("failed to upsert project", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to store project")
		}
		return
	}

	respondJSON(w, http.StatusOK, &project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.service.DeleteProject(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, search.ErrProjectNotFound):
			respondError(w, http.StatusNotFound, "not_found", "project not found")
		case errors.Is(err, search.ErrReadOnlyCatalog):
			respondError(w, http.StatusConflict, "read_only", "catalog source does not accept edits")
		default:
			slog.Error("failed to delete project", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete project")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "project deleted",
	})
}
