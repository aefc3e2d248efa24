package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/campusclubs/clubhub/internal/service"
	"github.com/campusclubs/clubhub/pkg/config"
	"github.com/campusclubs/clubhub/pkg/logger"
)

type Handlers struct {
	auth          service.AuthService
	tickets       service.TicketService
	registrations service.RegistrationService
	clubs         service.ClubService
	engagement    service.EngagementService
	config        *config.Config
}

func New(
	auth service.AuthService,
	tickets service.TicketService,
	registrations service.RegistrationService,
	clubs service.ClubService,
	engagement service.EngagementService,
	config *config.Config,
) *Handlers {
	return &Handlers{
		auth:          auth,
		tickets:       tickets,
		registrations: registrations,
		clubs:         clubs,
		engagement:    engagement,
		config:        config,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
