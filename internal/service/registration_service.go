package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/repo/postgres"
	"github.com/campusclubs/clubhub/pkg/config"
	"github.com/campusclubs/clubhub/pkg/events"
	"github.com/campusclubs/clubhub/pkg/logger"
)

const registrationPoints = 5

type RegistrationService interface {
	Register(ctx context.Context, callerID, eventID string) (*domain.Registration, error)
	ListMine(ctx context.Context, callerID string) ([]domain.RegistrationWithEvent, error)
	// EventAttendees lists an event's registrations for the check-in desk;
	// club leaders only.
	EventAttendees(ctx context.Context, callerID, eventID string, limit, offset int) ([]domain.Registration, error)
}

type registrationService struct {
	registrations postgres.RegistrationRepository
	clubs         postgres.ClubRepository
	notifications postgres.NotificationRepository
	points        postgres.PointsRepository
	eventBus      events.Publisher
	config        *config.Config
}

func NewRegistrationService(
	registrations postgres.RegistrationRepository,
	clubs postgres.ClubRepository,
	notifications postgres.NotificationRepository,
	points postgres.PointsRepository,
	eventBus events.Publisher,
	config *config.Config,
) RegistrationService {
	return &registrationService{
		registrations: registrations,
		clubs:         clubs,
		notifications: notifications,
		points:        points,
		eventBus:      eventBus,
		config:        config,
	}
}

func (s *registrationService) Register(ctx context.Context, callerID, eventID string) (*domain.Registration, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, domain.ErrEventNotFound
	}

	event, err := s.clubs.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	if !event.IsOpenForRegistration() {
		return nil, domain.ErrEventClosed
	}

	exists, err := s.registrations.ExistsForUser(ctx, eventID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	var reg *domain.Registration
	if event.MaxCapacity != nil {
		reg, err = s.registrations.CreateCapped(ctx, eventID, callerID, *event.MaxCapacity)
		if err != nil {
			return nil, fmt.Errorf("failed to create registration: %w", err)
		}
		if reg == nil {
			return nil, domain.ErrEventFull
		}
	} else {
		reg, err = s.registrations.Create(ctx, eventID, callerID)
		if err != nil {
			return nil, fmt.Errorf("failed to create registration: %w", err)
		}
	}

	logger.InfoContext(ctx, "Registration created", "registration_id", reg.ID, "event_id", eventID)

	// Best-effort side effects, mirroring check-in.
	desc := fmt.Sprintf("Registered for %s", event.Title)
	if err := s.points.Award(ctx, callerID, postgres.ActivityRegistration, reg.ID, desc, registrationPoints); err != nil {
		logger.ErrorContext(ctx, "Failed to award registration points", "error", err, "registration_id", reg.ID)
	}

	relatedType := "event"
	if err := s.notifications.Create(ctx, callerID,
		"Registration confirmed",
		fmt.Sprintf("You are registered for %s. Generate your QR ticket before the event.", event.Title),
		&reg.EventID, &relatedType,
	); err != nil {
		logger.ErrorContext(ctx, "Failed to create registration notification", "error", err, "registration_id", reg.ID)
	}

	if err := s.eventBus.Publish(ctx, events.RegistrationCreated, events.RegistrationCreatedEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		EventTitle:     event.Title,
		RegisteredAt:   reg.RegisteredAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish registration created event", "error", err, "registration_id", reg.ID)
	}

	return reg, nil
}

func (s *registrationService) ListMine(ctx context.Context, callerID string) ([]domain.RegistrationWithEvent, error) {
	return s.registrations.ListByUser(ctx, callerID)
}

func (s *registrationService) EventAttendees(ctx context.Context, callerID, eventID string, limit, offset int) ([]domain.Registration, error) {
	event, err := s.clubs.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	isLeader, err := s.clubs.IsLeader(ctx, event.ClubID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate leadership: %w", err)
	}
	if !isLeader {
		return nil, domain.ErrNotClubLeader
	}

	return s.registrations.ListByEvent(ctx, eventID, limit, offset)
}
