package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusclubs/clubhub/internal/domain"
)

type ClubRepository interface {
	List(ctx context.Context, limit, offset int) ([]domain.Club, error)
	GetByID(ctx context.Context, id string) (*domain.Club, error)
	ListEvents(ctx context.Context, clubID string, limit, offset int) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	// IsLeader evaluates, fresh on every call, whether the user may run
	// check-in for the club: they created it, hold an active leadership
	// role in it, or are a platform admin.
	IsLeader(ctx context.Context, clubID, userID string) (bool, error)
}

type clubRepository struct {
	pool *pgxpool.Pool
}

func NewClubRepository(pool *pgxpool.Pool) ClubRepository {
	return &clubRepository{pool: pool}
}

const clubCols = `id, name, description, category, created_by, faculty_coordinator, created_at, updated_at`

const eventCols = `id, club_id, title, description, event_date, venue, max_capacity, status, created_by, created_at, updated_at`

func (r *clubRepository) List(ctx context.Context, limit, offset int) ([]domain.Club, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + clubCols + ` FROM clubs ORDER BY name ASC LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []domain.Club
	for rows.Next() {
		var c domain.Club
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Category,
			&c.CreatedBy, &c.FacultyCoordinator, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	const q = `SELECT ` + clubCols + ` FROM clubs WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c domain.Club
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Category,
		&c.CreatedBy, &c.FacultyCoordinator, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &c, err
}

func (r *clubRepository) ListEvents(ctx context.Context, clubID string, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + eventCols + ` FROM events WHERE club_id=$1 ORDER BY event_date DESC LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, clubID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.ClubID, &e.Title, &e.Description, &e.EventDate,
			&e.Venue, &e.MaxCapacity, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *clubRepository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&e.ID, &e.ClubID, &e.Title, &e.Description, &e.EventDate,
		&e.Venue, &e.MaxCapacity, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &e, err
}

func (r *clubRepository) IsLeader(ctx context.Context, clubID, userID string) (bool, error) {
	const q = `
		SELECT EXISTS(SELECT 1 FROM clubs WHERE id=$1 AND created_by=$2)
		    OR EXISTS(SELECT 1 FROM club_members
		              WHERE club_id=$1 AND user_id=$2
		                AND role IN ('leader','officer') AND status='active')
		    OR EXISTS(SELECT 1 FROM user_roles WHERE user_id=$2 AND role='admin')`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var isLeader bool
	err := r.pool.QueryRow(ctx, q, clubID, userID).Scan(&isLeader)
	return isLeader, err
}
