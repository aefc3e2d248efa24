package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusclubs/clubhub/internal/http/middleware"
	"github.com/campusclubs/clubhub/internal/http/response"
	"github.com/campusclubs/clubhub/pkg/logger"
)

// Notifications handles GET /api/v1/me/notifications.
func (h *Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit, offset := parsePagination(r)
	list, err := h.engagement.Notifications(r.Context(), claims.Sub, limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "Notification list failed", "error", err)
		response.InternalError(w, "Could not list notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": list,
		"count":         len(list),
	})
}

// MarkNotificationRead handles POST /api/v1/me/notifications/{id}/read.
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ok, err := h.engagement.MarkNotificationRead(r.Context(), chi.URLParam(r, "id"), claims.Sub)
	if err != nil {
		logger.ErrorContext(r.Context(), "Notification update failed", "error", err)
		response.InternalError(w, "Could not update notification")
		return
	}
	if !ok {
		response.NotFound(w, "Notification not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

// Leaderboard handles GET /api/v1/leaderboard.
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := parsePagination(r)
	entries, err := h.engagement.Leaderboard(r.Context(), limit)
	if err != nil {
		logger.ErrorContext(r.Context(), "Leaderboard failed", "error", err)
		response.InternalError(w, "Could not load leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard": entries,
		"count":       len(entries),
	})
}
