package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/http/handlers"
	"github.com/campusclubs/clubhub/internal/http/middleware"
	"github.com/campusclubs/clubhub/internal/http/response"
	"github.com/campusclubs/clubhub/pkg/auth"
	"github.com/campusclubs/clubhub/pkg/config"
)

type stubTicketService struct {
	issueFunc   func(ctx context.Context, callerID, registrationID string) (string, error)
	checkInFunc func(ctx context.Context, callerID, token string) (*domain.CheckInResult, error)
}

func (s *stubTicketService) IssueTicket(ctx context.Context, callerID, registrationID string) (string, error) {
	return s.issueFunc(ctx, callerID, registrationID)
}

func (s *stubTicketService) CheckInAttendee(ctx context.Context, callerID, token string) (*domain.CheckInResult, error) {
	return s.checkInFunc(ctx, callerID, token)
}

func newHandlers(tickets *stubTicketService) *handlers.Handlers {
	return handlers.New(nil, tickets, nil, nil, nil, &config.Config{})
}

func authedRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	claims := &auth.Claims{Sub: userID}
	return req.WithContext(context.WithValue(req.Context(), middleware.CtxClaims, claims))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestIssueTicket(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authed     bool
		issueErr   error
		wantStatus int
	}{
		{"success", `{"registrationId":"reg-1"}`, true, nil, http.StatusOK},
		{"unauthenticated", `{"registrationId":"reg-1"}`, false, nil, http.StatusUnauthorized},
		{"malformed body", `{`, true, nil, http.StatusBadRequest},
		{"missing registration id", `{}`, true, nil, http.StatusBadRequest},
		{"not found", `{"registrationId":"reg-1"}`, true, domain.ErrRegistrationNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubTicketService{
				issueFunc: func(_ context.Context, callerID, registrationID string) (string, error) {
					assert.Equal(t, "user-1", callerID)
					assert.Equal(t, "reg-1", registrationID)
					if tt.issueErr != nil {
						return "", tt.issueErr
					}
					return "signed-token", nil
				},
			}

			var req *http.Request
			if tt.authed {
				req = authedRequest(http.MethodPost, "/api/v1/tickets", tt.body, "user-1")
			} else {
				req = httptest.NewRequest(http.MethodPost, "/api/v1/tickets", strings.NewReader(tt.body))
			}

			rec := httptest.NewRecorder()
			newHandlers(svc).IssueTicket(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					QRCode string `json:"qrCode"`
				}
				decodeBody(t, rec, &resp)
				assert.Equal(t, "signed-token", resp.QRCode)
			}
		})
	}
}

func TestCheckIn_Success(t *testing.T) {
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubTicketService{
		checkInFunc: func(_ context.Context, callerID, token string) (*domain.CheckInResult, error) {
			assert.Equal(t, "leader-1", callerID)
			assert.Equal(t, "scanned-token", token)
			return &domain.CheckInResult{
				Registration: &domain.Registration{ID: "reg-1", CheckedInAt: &at, Attended: true},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newHandlers(svc).CheckIn(rec, authedRequest(http.MethodPost, "/api/v1/check-in", `{"qrCode":"scanned-token"}`, "leader-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success      bool                 `json:"success"`
		Error        string               `json:"error"`
		Registration *domain.Registration `json:"registration"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	require.NotNil(t, resp.Registration)
	assert.Equal(t, "reg-1", resp.Registration.ID)
	assert.True(t, resp.Registration.Attended)
}

func TestCheckIn_AlreadyCheckedIn(t *testing.T) {
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubTicketService{
		checkInFunc: func(context.Context, string, string) (*domain.CheckInResult, error) {
			return &domain.CheckInResult{
				Registration:     &domain.Registration{ID: "reg-1", CheckedInAt: &at, Attended: true},
				AlreadyCheckedIn: true,
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newHandlers(svc).CheckIn(rec, authedRequest(http.MethodPost, "/api/v1/check-in", `{"qrCode":"scanned-token"}`, "leader-1"))

	// Replay is a 200 with success:false so the desk still sees who it was.
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success      bool                 `json:"success"`
		Error        string               `json:"error"`
		Registration *domain.Registration `json:"registration"`
	}
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, "Already checked in", resp.Error)
	require.NotNil(t, resp.Registration)
	assert.Equal(t, "reg-1", resp.Registration.ID)
}

func TestCheckIn_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid token", domain.ErrInvalidTicket, http.StatusBadRequest, response.CodeInvalidToken},
		{"expired token", domain.ErrExpiredTicket, http.StatusGone, response.CodeExpiredToken},
		{"unknown registration", domain.ErrRegistrationNotFound, http.StatusNotFound, response.CodeNotFound},
		{"not a leader", domain.ErrNotClubLeader, http.StatusForbidden, response.CodeForbidden},
		{"internal failure", assert.AnError, http.StatusInternalServerError, response.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubTicketService{
				checkInFunc: func(context.Context, string, string) (*domain.CheckInResult, error) {
					return nil, tt.err
				},
			}

			rec := httptest.NewRecorder()
			newHandlers(svc).CheckIn(rec, authedRequest(http.MethodPost, "/api/v1/check-in", `{"qrCode":"scanned-token"}`, "leader-1"))

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp response.ErrorResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestCheckIn_MissingToken(t *testing.T) {
	svc := &stubTicketService{
		checkInFunc: func(context.Context, string, string) (*domain.CheckInResult, error) {
			t.Fatal("service must not be called without a token")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newHandlers(svc).CheckIn(rec, authedRequest(http.MethodPost, "/api/v1/check-in", `{}`, "leader-1"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
