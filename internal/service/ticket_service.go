package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/monitoring"
	"github.com/campusclubs/clubhub/internal/repo/postgres"
	"github.com/campusclubs/clubhub/internal/ticket"
	"github.com/campusclubs/clubhub/pkg/config"
	"github.com/campusclubs/clubhub/pkg/events"
	"github.com/campusclubs/clubhub/pkg/logger"
)

// Attendance points awarded on a fresh check-in.
const attendancePoints = 10

type TicketService interface {
	// IssueTicket mints a signed QR token for a registration held by the
	// caller and persists it as the registration's current ticket,
	// replacing (and thereby invalidating) any previously issued one.
	IssueTicket(ctx context.Context, callerID, registrationID string) (string, error)

	// CheckInAttendee validates a presented token and performs the
	// one-time check-in transition, gated on the caller holding a
	// leadership role for the club owning the registration's event.
	CheckInAttendee(ctx context.Context, callerID, token string) (*domain.CheckInResult, error)
}

type ticketService struct {
	registrations postgres.RegistrationRepository
	clubs         postgres.ClubRepository
	users         postgres.UserRepository
	notifications postgres.NotificationRepository
	points        postgres.PointsRepository
	codec         *ticket.Codec
	eventBus      events.Publisher
	config        *config.Config
	now           func() time.Time
}

func NewTicketService(
	registrations postgres.RegistrationRepository,
	clubs postgres.ClubRepository,
	users postgres.UserRepository,
	notifications postgres.NotificationRepository,
	points postgres.PointsRepository,
	codec *ticket.Codec,
	eventBus events.Publisher,
	config *config.Config,
) TicketService {
	return &ticketService{
		registrations: registrations,
		clubs:         clubs,
		users:         users,
		notifications: notifications,
		points:        points,
		codec:         codec,
		eventBus:      eventBus,
		config:        config,
		now:           time.Now,
	}
}

func (s *ticketService) IssueTicket(ctx context.Context, callerID, registrationID string) (string, error) {
	// A malformed id gets the same answer as a missing one so the error
	// path leaks nothing about which registrations exist.
	if _, err := uuid.Parse(registrationID); err != nil {
		return "", domain.ErrRegistrationNotFound
	}

	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return "", fmt.Errorf("failed to load registration: %w", err)
	}
	if reg == nil || !reg.IsHeldBy(callerID) {
		return "", domain.ErrRegistrationNotFound
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.config.Ticket.TTL)
	token := s.codec.Encode(reg.ID, issuedAt, expiresAt)

	if err := s.registrations.SetTicket(ctx, reg.ID, token); err != nil {
		return "", fmt.Errorf("failed to store ticket: %w", err)
	}

	monitoring.RecordTicketIssued()
	logger.InfoContext(ctx, "Ticket issued", "registration_id", reg.ID)

	if err := s.eventBus.Publish(ctx, events.TicketIssued, events.TicketIssuedEvent{
		RegistrationID: reg.ID,
		UserID:         reg.UserID,
		IssuedAt:       issuedAt,
		ExpiresAt:      expiresAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish ticket issued event", "error", err, "registration_id", reg.ID)
	}

	return token, nil
}

func (s *ticketService) CheckInAttendee(ctx context.Context, callerID, token string) (*domain.CheckInResult, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		monitoring.RecordCheckIn(monitoring.OutcomeInvalid)
		logger.WarnContext(ctx, "Check-in with invalid ticket token", "error", err)
		return nil, domain.ErrInvalidTicket
	}

	now := s.now()
	if claims.Expired(now) {
		monitoring.RecordCheckIn(monitoring.OutcomeExpired)
		return nil, domain.ErrExpiredTicket
	}

	// Resolve by id AND stored-token equality: a validly signed token that
	// has since been superseded by a re-issue must not redeem.
	reg, err := s.registrations.GetByIDAndTicket(ctx, claims.RegistrationID, token)
	if err != nil {
		monitoring.RecordCheckIn(monitoring.OutcomeError)
		return nil, fmt.Errorf("failed to resolve registration: %w", err)
	}
	if reg == nil {
		monitoring.RecordCheckIn(monitoring.OutcomeNotFound)
		return nil, domain.ErrRegistrationNotFound
	}

	if _, done := reg.CheckInState(); done {
		monitoring.RecordCheckIn(monitoring.OutcomeReplay)
		return &domain.CheckInResult{Registration: reg, AlreadyCheckedIn: true}, nil
	}

	event, err := s.clubs.GetEvent(ctx, reg.EventID)
	if err != nil {
		monitoring.RecordCheckIn(monitoring.OutcomeError)
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		monitoring.RecordCheckIn(monitoring.OutcomeError)
		return nil, fmt.Errorf("registration %s references missing event %s", reg.ID, reg.EventID)
	}

	isLeader, err := s.clubs.IsLeader(ctx, event.ClubID, callerID)
	if err != nil {
		monitoring.RecordCheckIn(monitoring.OutcomeError)
		return nil, fmt.Errorf("failed to evaluate leadership: %w", err)
	}
	if !isLeader {
		monitoring.RecordCheckIn(monitoring.OutcomeForbidden)
		return nil, domain.ErrNotClubLeader
	}

	updated, err := s.registrations.CheckIn(ctx, reg.ID, token, now)
	if err != nil {
		monitoring.RecordCheckIn(monitoring.OutcomeError)
		return nil, fmt.Errorf("failed to check in registration: %w", err)
	}
	if updated == nil {
		// A concurrent redeemer won the race between our idempotence check
		// and the conditional write. The attendee is checked in either
		// way, so report the replay path, not a failure.
		current, err := s.registrations.GetByID(ctx, reg.ID)
		if err != nil || current == nil {
			monitoring.RecordCheckIn(monitoring.OutcomeError)
			return nil, fmt.Errorf("failed to re-read registration after lost check-in race: %w", err)
		}
		monitoring.RecordCheckIn(monitoring.OutcomeReplay)
		return &domain.CheckInResult{Registration: current, AlreadyCheckedIn: true}, nil
	}

	monitoring.RecordCheckIn(monitoring.OutcomeSuccess)
	logger.InfoContext(ctx, "Attendee checked in",
		"registration_id", updated.ID,
		"event_id", updated.EventID,
		"checked_in_by", callerID,
	)

	s.recordCheckInSideEffects(ctx, callerID, updated, event)

	return &domain.CheckInResult{Registration: updated}, nil
}

// recordCheckInSideEffects awards attendance points, writes the attendee's
// notification, and publishes events. All best-effort: a fresh check-in
// never fails because of them.
func (s *ticketService) recordCheckInSideEffects(ctx context.Context, callerID string, reg *domain.Registration, event *domain.Event) {
	desc := fmt.Sprintf("Attended %s", event.Title)
	if err := s.points.Award(ctx, reg.UserID, postgres.ActivityAttendance, reg.ID, desc, attendancePoints); err != nil {
		logger.ErrorContext(ctx, "Failed to award attendance points", "error", err, "registration_id", reg.ID)
	}

	relatedType := "event"
	if err := s.notifications.Create(ctx, reg.UserID,
		"Checked in",
		fmt.Sprintf("You are checked in to %s. Enjoy the event!", event.Title),
		&reg.EventID, &relatedType,
	); err != nil {
		logger.ErrorContext(ctx, "Failed to create check-in notification", "error", err, "registration_id", reg.ID)
	}

	checkedInAt := s.now()
	if at, ok := reg.CheckInState(); ok {
		checkedInAt = at
	}
	if err := s.eventBus.Publish(ctx, events.AttendeeCheckedIn, events.AttendeeCheckedInEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		CheckedInBy:    callerID,
		CheckedInAt:    checkedInAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish check-in event", "error", err, "registration_id", reg.ID)
	}

	attendee, err := s.users.FindByID(ctx, reg.UserID)
	if err != nil || attendee == nil {
		logger.WarnContext(ctx, "Could not load attendee for check-in email", "error", err, "user_id", reg.UserID)
		return
	}
	if err := s.eventBus.Publish(ctx, events.NotifySend, events.NotificationEvent{
		Recipient: attendee.Email,
		Name:      attendee.FullName,
		Subject:   fmt.Sprintf("Checked in: %s", event.Title),
		Body:      fmt.Sprintf("Hi %s, you are checked in to %s. Enjoy the event!", attendee.FullName, event.Title),
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish check-in notification", "error", err, "registration_id", reg.ID)
	}
}

// IsTicketError reports whether err belongs to the closed ticketing error
// set, as opposed to an internal failure.
func IsTicketError(err error) bool {
	return errors.Is(err, domain.ErrRegistrationNotFound) ||
		errors.Is(err, domain.ErrInvalidTicket) ||
		errors.Is(err, domain.ErrExpiredTicket) ||
		errors.Is(err, domain.ErrNotClubLeader)
}
