package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusclubs/clubhub/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, userID, title, message string, relatedID, relatedType *string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, userID, title, message string, relatedID, relatedType *string) error {
	const q = `INSERT INTO notifications (user_id, title, message, related_id, related_type)
	VALUES ($1, $2, $3, $4, $5)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, userID, title, message, relatedID, relatedType)
	return err
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT id, user_id, title, message, read, related_id, related_type, created_at
	FROM notifications
	WHERE user_id=$1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message,
			&n.Read, &n.RelatedID, &n.RelatedType, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	const q = `UPDATE notifications SET read=true WHERE id=$1 AND user_id=$2 AND read=false`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
