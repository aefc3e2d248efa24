package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusclubs/clubhub/internal/domain"
)

type RegistrationRepository interface {
	Create(ctx context.Context, eventID, userID string) (*domain.Registration, error)
	// CreateCapped inserts only while the event still has room, in one
	// conditional statement. Returns (nil, nil) when the event is full.
	CreateCapped(ctx context.Context, eventID, userID string, capacity int) (*domain.Registration, error)
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	// GetByIDAndTicket resolves a registration only when the presented
	// token is byte-for-byte the stored one, so superseded tokens miss.
	GetByIDAndTicket(ctx context.Context, id, token string) (*domain.Registration, error)
	SetTicket(ctx context.Context, id, token string) error
	// CheckIn performs the one-time transition. It returns (nil, nil) when
	// the conditional update matched no row: either the registration is
	// already checked in (possibly by a concurrent redeemer) or the stored
	// token changed underneath the caller.
	CheckIn(ctx context.Context, id, token string, at time.Time) (*domain.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RegistrationWithEvent, error)
	ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]domain.Registration, error)
	ExistsForUser(ctx context.Context, eventID, userID string) (bool, error)
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

const registrationCols = `id, event_id, user_id, qr_code, checked_in_at, attended, registered_at`

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var reg domain.Registration
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.UserID,
		&reg.QRCode, &reg.CheckedInAt, &reg.Attended, &reg.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	const q = `INSERT INTO event_registrations (event_id, user_id)
	VALUES ($1, $2)
	RETURNING ` + registrationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRegistration(r.pool.QueryRow(ctx, q, eventID, userID))
}

func (r *registrationRepository) CreateCapped(ctx context.Context, eventID, userID string, capacity int) (*domain.Registration, error) {
	// Capacity is enforced inside the insert itself, the same shape as the
	// check-in conditional update: the guard and the write are one
	// statement, so two concurrent registrations cannot both pass a
	// separate count check and oversell the event.
	const q = `INSERT INTO event_registrations (event_id, user_id)
	SELECT $1, $2
	WHERE (SELECT count(*) FROM event_registrations WHERE event_id=$1) < $3
	RETURNING ` + registrationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, eventID, userID, capacity))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM event_registrations WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *registrationRepository) GetByIDAndTicket(ctx context.Context, id, token string) (*domain.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM event_registrations WHERE id=$1 AND qr_code=$2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, id, token))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *registrationRepository) SetTicket(ctx context.Context, id, token string) error {
	const q = `UPDATE event_registrations SET qr_code=$2 WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, token)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) CheckIn(ctx context.Context, id, token string, at time.Time) (*domain.Registration, error) {
	// Single conditional write: two concurrent redeemers can both run this,
	// but only one matches the checked_in_at IS NULL guard. The loser gets
	// no row back and takes the idempotent path.
	const q = `
		UPDATE event_registrations
		SET checked_in_at=$3, attended=true
		WHERE id=$1 AND qr_code=$2 AND checked_in_at IS NULL
		RETURNING ` + registrationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, id, token, at))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.RegistrationWithEvent, error) {
	const q = `
		SELECT r.id, r.event_id, r.user_id, r.qr_code, r.checked_in_at, r.attended, r.registered_at,
		       e.title, e.event_date, e.venue, c.name
		FROM event_registrations r
		JOIN events e ON e.id = r.event_id
		JOIN clubs c ON c.id = e.club_id
		WHERE r.user_id=$1
		ORDER BY e.event_date DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []domain.RegistrationWithEvent
	for rows.Next() {
		var reg domain.RegistrationWithEvent
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID, &reg.QRCode,
			&reg.CheckedInAt, &reg.Attended, &reg.RegisteredAt,
			&reg.EventTitle, &reg.EventDate, &reg.Venue, &reg.ClubName,
		); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]domain.Registration, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + registrationCols + `
	FROM event_registrations
	WHERE event_id=$1
	ORDER BY registered_at ASC
	LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, eventID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID,
			&reg.QRCode, &reg.CheckedInAt, &reg.Attended, &reg.RegisteredAt,
		); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) ExistsForUser(ctx context.Context, eventID, userID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id=$1 AND user_id=$2)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, eventID, userID).Scan(&exists)
	return exists, err
}
