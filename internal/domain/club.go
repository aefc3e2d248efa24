package domain

import "time"

type ClubCategory string

const (
	ClubCultural  ClubCategory = "cultural"
	ClubTechnical ClubCategory = "technical"
	ClubSports    ClubCategory = "sports"
	ClubAcademic  ClubCategory = "academic"
	ClubSocial    ClubCategory = "social"
	ClubOther     ClubCategory = "other"
)

type Club struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Description        *string      `json:"description,omitempty"`
	Category           ClubCategory `json:"category"`
	CreatedBy          *string      `json:"created_by,omitempty"`
	FacultyCoordinator *string      `json:"faculty_coordinator,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	ID          string      `json:"id"`
	ClubID      string      `json:"club_id"`
	Title       string      `json:"title"`
	Description *string     `json:"description,omitempty"`
	EventDate   time.Time   `json:"event_date"`
	Venue       *string     `json:"venue,omitempty"`
	MaxCapacity *int        `json:"max_capacity,omitempty"`
	Status      EventStatus `json:"status"`
	CreatedBy   *string     `json:"created_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsOpenForRegistration reports whether new registrations are accepted.
func (e *Event) IsOpenForRegistration() bool {
	return e.Status == EventUpcoming || e.Status == EventOngoing
}

type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipActive   MembershipStatus = "active"
	MembershipRejected MembershipStatus = "rejected"
)

// MemberRole is a member's role within a club. Leaders and officers may
// run check-in for the club's events.
type MemberRole string

const (
	RoleMember  MemberRole = "member"
	RoleOfficer MemberRole = "officer"
	RoleLeader  MemberRole = "leader"
)

type ClubMember struct {
	ID       string           `json:"id"`
	ClubID   string           `json:"club_id"`
	UserID   string           `json:"user_id"`
	Role     MemberRole       `json:"role"`
	Status   MembershipStatus `json:"status"`
	JoinedAt time.Time        `json:"joined_at"`
}
