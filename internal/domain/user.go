package domain

import (
	"errors"
	"strings"
	"time"
)

// AppRole is a platform-wide role. Admins may check in attendees for any
// club's events.
type AppRole string

const (
	RoleStudent    AppRole = "student"
	RoleClubLeader AppRole = "club_leader"
	RoleAdmin      AppRole = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Role         AppRole   `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("valid email is required")
	}
	if r.FullName == "" {
		return errors.New("full name is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

type Notification struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	RelatedID   *string   `json:"related_id,omitempty"`
	RelatedType *string   `json:"related_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	TotalPoints int    `json:"total_points"`
}
