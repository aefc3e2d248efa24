package domain

import "errors"

// Closed error set for the ticketing and registration flows. Handlers
// branch on these with errors.Is to pick HTTP statuses; anything else is
// treated as internal and surfaced as a generic failure.
var (
	// ErrRegistrationNotFound covers a missing registration, a registration
	// held by someone else, and a presented token that no longer matches
	// the stored one. Collapsing these avoids confirming whether a given
	// registration id exists for another user.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrInvalidTicket covers malformed structure and bad signatures alike.
	ErrInvalidTicket = errors.New("invalid ticket")

	// ErrExpiredTicket is a correctly signed token past its expiry. Unlike
	// a signature failure this is an expected condition, so it gets its
	// own code.
	ErrExpiredTicket = errors.New("ticket expired")

	// ErrNotClubLeader rejects redemption by a caller without a leadership
	// role for the club owning the registration's event.
	ErrNotClubLeader = errors.New("only club leaders can check in attendees")

	ErrClubNotFound      = errors.New("club not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrEventClosed       = errors.New("event is not open for registration")
	ErrEventFull         = errors.New("event is at capacity")
	ErrAlreadyRegistered = errors.New("already registered for this event")

	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
