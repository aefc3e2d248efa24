package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusclubs/clubhub/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, email, fullName, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// Role comes from user_roles; the most privileged row wins, default student.
const userCols = `p.id, p.email, p.full_name, p.avatar_url, p.password_hash, p.created_at, p.updated_at,
COALESCE((SELECT ur.role FROM user_roles ur WHERE ur.user_id = p.id
          ORDER BY CASE ur.role WHEN 'admin' THEN 0 WHEN 'club_leader' THEN 1 ELSE 2 END
          LIMIT 1), 'student')`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.AvatarURL,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.Role,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, email, fullName, passwordHash string) (*domain.User, error) {
	const q = `INSERT INTO profiles (email, full_name, password_hash)
	VALUES ($1, $2, $3)
	RETURNING id, email, full_name, avatar_url, password_hash, created_at, updated_at, 'student'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q, email, fullName, passwordHash))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM profiles p WHERE lower(p.email)=lower($1)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM profiles p WHERE p.id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}
