package state_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/state"
)

func TestRegistry_CreateGet(t *testing.T) {
	r := state.NewRegistry(time.Minute)

	id, st := r.Create()
	got, err := r.Get(id)

	require.NoError(t, err)
	assert.Same(t, st, got)
}

func TestRegistry_UnknownSession(t *testing.T) {
	r := state.NewRegistry(time.Minute)

	_, err := r.Get(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_IdleSessionsExpire(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	r := state.NewRegistry(30 * time.Minute).WithClock(func() time.Time { return now })

	stale, _ := r.Create()
	fresh, _ := r.Create()

	now = now.Add(20 * time.Minute)
	_, err := r.Get(fresh)
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	_, err = r.Get(stale)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.Get(fresh)
	assert.NoError(t, err)
}

func TestRegistry_CreateEvictsExpired(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	r := state.NewRegistry(time.Minute).WithClock(func() time.Time { return now })

	r.Create()
	r.Create()
	now = now.Add(2 * time.Minute)
	r.Create()

	assert.Equal(t, 1, r.Len())
}
