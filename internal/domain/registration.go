package domain

import "time"

// Registration is one user's claim on one event. QRCode holds the current
// ticket token; only the most recently issued token matches it, so issuing
// a new ticket implicitly invalidates the previous one.
type Registration struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	UserID       string     `json:"user_id"`
	QRCode       *string    `json:"qr_code,omitempty"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	Attended     bool       `json:"attended"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// CheckInState reports the two-state check-in machine: a registration is
// either not checked in, or checked in at a fixed instant. The transition
// happens at most once and is never reversed.
func (r *Registration) CheckInState() (at time.Time, checkedIn bool) {
	if r.CheckedInAt == nil {
		return time.Time{}, false
	}
	return *r.CheckedInAt, true
}

// IsHeldBy reports whether the registration belongs to the given user.
func (r *Registration) IsHeldBy(userID string) bool {
	return r.UserID == userID
}

// CheckInResult is the outcome of a redemption attempt. AlreadyCheckedIn
// marks the benign idempotent-replay path (double scan, or losing a
// concurrent redemption race); it is not an error.
type CheckInResult struct {
	Registration     *Registration `json:"registration"`
	AlreadyCheckedIn bool          `json:"-"`
}

// RegistrationWithEvent joins a registration with event/club display fields
// for the holder's ticket list.
type RegistrationWithEvent struct {
	Registration
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	Venue      *string   `json:"venue,omitempty"`
	ClubName   string    `json:"club_name"`
}
