package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/http/middleware"
	"github.com/campusclubs/clubhub/internal/http/response"
	"github.com/campusclubs/clubhub/pkg/logger"
)

// RegisterForEvent handles POST /api/v1/events/{id}/register.
func (h *Handlers) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	reg, err := h.registrations.Register(r.Context(), claims.Sub, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			response.NotFound(w, "Event not found")
		case errors.Is(err, domain.ErrEventClosed):
			response.Conflict(w, "Event is not open for registration", response.CodeEventClosed)
		case errors.Is(err, domain.ErrEventFull):
			response.Conflict(w, "Event is at capacity", response.CodeEventFull)
		case errors.Is(err, domain.ErrAlreadyRegistered):
			response.Conflict(w, "Already registered for this event", response.CodeConflict)
		default:
			logger.ErrorContext(r.Context(), "Event registration failed", "error", err)
			response.InternalError(w, "Could not register for event")
		}
		return
	}

	writeJSON(w, http.StatusCreated, reg)
}

// MyRegistrations handles GET /api/v1/me/registrations.
func (h *Handlers) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	regs, err := h.registrations.ListMine(r.Context(), claims.Sub)
	if err != nil {
		logger.ErrorContext(r.Context(), "Registration list failed", "error", err)
		response.InternalError(w, "Could not list registrations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"registrations": regs,
		"count":         len(regs),
	})
}

// EventAttendees handles GET /api/v1/events/{id}/attendees, the check-in
// desk roster. Club leaders only.
func (h *Handlers) EventAttendees(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit, offset := parsePagination(r)
	regs, err := h.registrations.EventAttendees(r.Context(), claims.Sub, chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			response.NotFound(w, "Event not found")
		case errors.Is(err, domain.ErrNotClubLeader):
			response.Forbidden(w, "Only club leaders can view the attendee roster")
		default:
			logger.ErrorContext(r.Context(), "Attendee roster failed", "error", err)
			response.InternalError(w, "Could not list attendees")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attendees": regs,
		"count":     len(regs),
	})
}
