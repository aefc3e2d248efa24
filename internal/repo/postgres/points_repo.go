package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusclubs/clubhub/internal/domain"
)

// Activity types recorded in user_points.
const (
	ActivityRegistration = "event_registration"
	ActivityAttendance   = "event_attendance"
)

type PointsRepository interface {
	Award(ctx context.Context, userID, activityType, activityID, description string, points int) error
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	TotalForUser(ctx context.Context, userID string) (int, error)
}

type pointsRepository struct {
	pool *pgxpool.Pool
}

func NewPointsRepository(pool *pgxpool.Pool) PointsRepository {
	return &pointsRepository{pool: pool}
}

func (r *pointsRepository) Award(ctx context.Context, userID, activityType, activityID, description string, points int) error {
	// One award per (user, activity, source row); a replayed check-in or
	// registration re-run must not double-count.
	const q = `INSERT INTO user_points (user_id, activity_type, activity_id, description, points)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, activity_type, activity_id) DO NOTHING`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, userID, activityType, activityID, description, points)
	return err
}

func (r *pointsRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	const q = `
		SELECT p.id, p.full_name, COALESCE(sum(up.points), 0)::int AS total
		FROM profiles p
		JOIN user_points up ON up.user_id = p.id
		GROUP BY p.id, p.full_name
		ORDER BY total DESC, p.full_name ASC
		LIMIT $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.FullName, &e.TotalPoints); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *pointsRepository) TotalForUser(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COALESCE(sum(points), 0)::int FROM user_points WHERE user_id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int
	err := r.pool.QueryRow(ctx, q, userID).Scan(&total)
	return total, err
}
