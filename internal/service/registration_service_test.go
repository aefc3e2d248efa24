package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusclubs/clubhub/internal/domain"
	"github.com/campusclubs/clubhub/internal/repo/postgres"
	"github.com/campusclubs/clubhub/pkg/config"
)

func newRegistrationFixture(t *testing.T) (*registrationService, *fixture) {
	t.Helper()
	f := newFixture(t)
	svc := &registrationService{
		registrations: f.regs,
		clubs:         f.clubs,
		notifications: f.notifications,
		points:        f.points,
		eventBus:      f.bus,
		config:        &config.Config{},
	}
	return svc, f
}

func TestRegister_Success(t *testing.T) {
	svc, f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, strangerID, eventID)
	require.NoError(t, err)
	assert.Equal(t, eventID, reg.EventID)
	assert.Equal(t, strangerID, reg.UserID)
	assert.Nil(t, reg.QRCode)

	require.Len(t, f.points.awards, 1)
	assert.Equal(t, postgres.ActivityRegistration, f.points.awards[0].activityType)
	assert.Len(t, f.notifications.created, 1)
}

func TestRegister_Rejections(t *testing.T) {
	svc, f := newRegistrationFixture(t)
	ctx := context.Background()

	t.Run("unknown event", func(t *testing.T) {
		_, err := svc.Register(ctx, strangerID, otherRegID)
		require.ErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("malformed event id", func(t *testing.T) {
		_, err := svc.Register(ctx, strangerID, "nope")
		require.ErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		// holderID is already registered via the fixture.
		_, err := svc.Register(ctx, holderID, eventID)
		require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	})

	t.Run("closed event", func(t *testing.T) {
		f.clubs.events[eventID].Status = domain.EventCompleted
		defer func() { f.clubs.events[eventID].Status = domain.EventUpcoming }()

		_, err := svc.Register(ctx, strangerID, eventID)
		require.ErrorIs(t, err, domain.ErrEventClosed)
	})

	t.Run("full event", func(t *testing.T) {
		capacity := 1 // holder's fixture registration fills it
		f.clubs.events[eventID].MaxCapacity = &capacity
		defer func() { f.clubs.events[eventID].MaxCapacity = nil }()

		_, err := svc.Register(ctx, strangerID, eventID)
		require.ErrorIs(t, err, domain.ErrEventFull)
	})
}

func TestRegister_ConcurrentNeverOversells(t *testing.T) {
	svc, f := newRegistrationFixture(t)
	ctx := context.Background()

	// One free seat beyond the fixture's existing registration.
	capacity := 2
	f.clubs.events[eventID].MaxCapacity = &capacity

	// Two users race for it; the capacity guard lives inside the insert,
	// so exactly one wins regardless of interleaving.
	users := []string{strangerID, creatorID}
	errs := make([]error, len(users))

	var wg sync.WaitGroup
	for i, userID := range users {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, userID, eventID)
		}(i, userID)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, domain.ErrEventFull)
		}
	}
	assert.Equal(t, 1, won, "exactly one registration may take the last seat")

	count := 0
	for _, reg := range f.regs.regs {
		if reg.EventID == eventID {
			count++
		}
	}
	assert.Equal(t, capacity, count)
}

func TestEventAttendees_LeaderGate(t *testing.T) {
	svc, _ := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := svc.EventAttendees(ctx, strangerID, eventID, 20, 0)
	require.ErrorIs(t, err, domain.ErrNotClubLeader)

	regs, err := svc.EventAttendees(ctx, creatorID, eventID, 20, 0)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, regID, regs[0].ID)
}
