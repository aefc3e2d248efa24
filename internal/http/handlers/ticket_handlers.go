package handlers

import (
	"errors"
	"net/http"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/http/middleware"
	"github.com/campusclubs/clubhub/internal/http/response"
	"github.com/campusclubs/clubhub/pkg/logger"
)

type issueTicketRequest struct {
	RegistrationID string `json:"registrationId"`
}

type issueTicketResponse struct {
	QRCode string `json:"qrCode"`
}

// IssueTicket handles POST /api/v1/tickets. The caller must hold the
// registration; the response token is what the client renders as a QR.
func (h *Handlers) IssueTicket(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req issueTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.RegistrationID == "" {
		response.BadRequest(w, "registrationId is required")
		return
	}

	token, err := h.tickets.IssueTicket(r.Context(), claims.Sub, req.RegistrationID)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			response.NotFound(w, "Registration not found")
			return
		}
		logger.ErrorContext(r.Context(), "Ticket issue failed", "error", err)
		response.InternalError(w, "Could not issue ticket")
		return
	}

	writeJSON(w, http.StatusOK, issueTicketResponse{QRCode: token})
}

type checkInRequest struct {
	QRCode string `json:"qrCode"`
}

type checkInResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Registration *domain.Registration `json:"registration"`
}

// CheckIn handles POST /api/v1/check-in. Club leaders scan an attendee's
// QR token; a repeat scan of an already-redeemed token is reported as a
// non-error so the desk sees who it was, not a failure page.
func (h *Handlers) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.QRCode == "" {
		response.BadRequest(w, "qrCode is required")
		return
	}

	result, err := h.tickets.CheckInAttendee(r.Context(), claims.Sub, req.QRCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTicket):
			response.WriteError(w, http.StatusBadRequest, "Invalid ticket", response.CodeInvalidToken)
		case errors.Is(err, domain.ErrExpiredTicket):
			response.Gone(w, "Ticket expired")
		case errors.Is(err, domain.ErrRegistrationNotFound):
			response.NotFound(w, "Registration not found")
		case errors.Is(err, domain.ErrNotClubLeader):
			response.Forbidden(w, "Only club leaders can check in attendees")
		default:
			logger.ErrorContext(r.Context(), "Check-in failed", "error", err)
			response.InternalError(w, "Could not check in attendee")
		}
		return
	}

	resp := checkInResponse{Success: true, Registration: result.Registration}
	if result.AlreadyCheckedIn {
		resp.Success = false
		resp.Error = "Already checked in"
	}
	writeJSON(w, http.StatusOK, resp)
}
