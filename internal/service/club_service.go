package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/repo/postgres"
)

type ClubService interface {
	ListClubs(ctx context.Context, limit, offset int) ([]domain.Club, error)
	GetClub(ctx context.Context, id string) (*domain.Club, error)
	ListClubEvents(ctx context.Context, clubID string, limit, offset int) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
}

type clubService struct {
	clubs postgres.ClubRepository
}

func NewClubService(clubs postgres.ClubRepository) ClubService {
	return &clubService{clubs: clubs}
}

func (s *clubService) ListClubs(ctx context.Context, limit, offset int) ([]domain.Club, error) {
	clubs, err := s.clubs.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

func (s *clubService) GetClub(ctx context.Context, id string) (*domain.Club, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrClubNotFound
	}
	club, err := s.clubs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load club: %w", err)
	}
	if club == nil {
		return nil, domain.ErrClubNotFound
	}
	return club, nil
}

func (s *clubService) ListClubEvents(ctx context.Context, clubID string, limit, offset int) ([]domain.Event, error) {
	if _, err := uuid.Parse(clubID); err != nil {
		return nil, domain.ErrClubNotFound
	}
	events, err := s.clubs.ListEvents(ctx, clubID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list club events: %w", err)
	}
	return events, nil
}

func (s *clubService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrEventNotFound
	}
	event, err := s.clubs.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}
