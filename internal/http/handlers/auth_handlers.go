package handlers

import (
	"errors"
	"net/http"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/http/middleware"
	"github.com/campusclubs/clubhub/internal/http/response"
	"github.com/campusclubs/clubhub/pkg/logger"
)

// Register handles POST /api/v1/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	session, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.Conflict(w, "Email already in use", response.CodeEmailExists)
			return
		}
		logger.ErrorContext(r.Context(), "Registration failed", "error", err)
		response.InternalError(w, "Could not create account")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Login handles POST /api/v1/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	session, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		logger.ErrorContext(r.Context(), "Login failed", "error", err)
		response.InternalError(w, "Could not sign in")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Me handles GET /api/v1/me.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	user, err := h.auth.GetUser(r.Context(), claims.Sub)
	if err != nil || user == nil {
		logger.ErrorContext(r.Context(), "Profile lookup failed", "error", err)
		response.InternalError(w, "Could not load profile")
		return
	}

	points, err := h.engagement.PointsForUser(r.Context(), user.ID)
	if err != nil {
		logger.WarnContext(r.Context(), "Points lookup failed", "error", err, "user_id", user.ID)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"points": points,
	})
}
