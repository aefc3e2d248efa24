package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/http/response"
	"github.com/campusclubs/clubhub/pkg/logger"
)

// ListClubs handles GET /api/v1/clubs.
func (h *Handlers) ListClubs(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	clubs, err := h.clubs.ListClubs(r.Context(), limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "Club list failed", "error", err)
		response.InternalError(w, "Could not list clubs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clubs": clubs,
		"count": len(clubs),
	})
}

// GetClub handles GET /api/v1/clubs/{id}.
func (h *Handlers) GetClub(w http.ResponseWriter, r *http.Request) {
	club, err := h.clubs.GetClub(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrClubNotFound) {
			response.NotFound(w, "Club not found")
			return
		}
		logger.ErrorContext(r.Context(), "Club lookup failed", "error", err)
		response.InternalError(w, "Could not load club")
		return
	}

	writeJSON(w, http.StatusOK, club)
}

// ListClubEvents handles GET /api/v1/clubs/{id}/events.
func (h *Handlers) ListClubEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	events, err := h.clubs.ListClubEvents(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrClubNotFound) {
			response.NotFound(w, "Club not found")
			return
		}
		logger.ErrorContext(r.Context(), "Club events list failed", "error", err)
		response.InternalError(w, "Could not list events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// GetEvent handles GET /api/v1/events/{id}.
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.clubs.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			response.NotFound(w, "Event not found")
			return
		}
		logger.ErrorContext(r.Context(), "Event lookup failed", "error", err)
		response.InternalError(w, "Could not load event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}
