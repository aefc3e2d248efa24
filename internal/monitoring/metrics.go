package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total QR tickets issued",
		},
	)

	checkIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "check_ins_total",
			Help: "Check-in attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Check-in outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeReplay    = "already_checked_in"
	OutcomeInvalid   = "invalid_token"
	OutcomeExpired   = "expired_token"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

func RecordTicketIssued() {
	ticketsIssued.Inc()
}

func RecordCheckIn(outcome string) {
	checkIns.WithLabelValues(outcome).Inc()
}
