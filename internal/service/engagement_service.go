package service

import (
	"context"
	"fmt"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/repo/postgres"
)

// EngagementService serves the attendee-facing engagement surface:
// notifications and the campus points leaderboard.
type EngagementService interface {
	Notifications(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) (bool, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	PointsForUser(ctx context.Context, userID string) (int, error)
}

type engagementService struct {
	notifications postgres.NotificationRepository
	points        postgres.PointsRepository
}

func NewEngagementService(notifications postgres.NotificationRepository, points postgres.PointsRepository) EngagementService {
	return &engagementService{notifications: notifications, points: points}
}

func (s *engagementService) Notifications(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	list, err := s.notifications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *engagementService) MarkNotificationRead(ctx context.Context, id, userID string) (bool, error) {
	ok, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return ok, nil
}

func (s *engagementService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := s.points.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return entries, nil
}

func (s *engagementService) PointsForUser(ctx context.Context, userID string) (int, error) {
	total, err := s.points.TotalForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to total points: %w", err)
	}
	return total, nil
}
