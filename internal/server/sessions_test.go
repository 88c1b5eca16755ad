package server

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(ttl time.Duration) (*SessionRegistry, *int) {
	built := 0
	registry := NewSessionRegistry(ttl, func(id string) *Session {
		built++
		return &Session{ID: id}
	}, zerolog.Nop())
	return registry, &built
}

func TestRegistry_AllocatesFreshSession(t *testing.T) {
	registry, built := newTestRegistry(time.Minute)

	session := registry.Get("")

	require.NotNil(t, session)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, 1, *built)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_ReusesKnownID(t *testing.T) {
	registry, built := newTestRegistry(time.Minute)

	first := registry.Get("")
	second := registry.Get(first.ID)

	assert.Same(t, first, second)
	assert.Equal(t, 1, *built)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_UnknownIDRebuildsUnderSameID(t *testing.T) {
	registry, built := newTestRegistry(time.Minute)

	session := registry.Get("stale-client-id")

	assert.Equal(t, "stale-client-id", session.ID)
	assert.Equal(t, 1, *built)
}

func TestRegistry_EvictsIdleSessions(t *testing.T) {
	registry, _ := newTestRegistry(10 * time.Minute)

	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return base }

	idle := registry.Get("")
	active := registry.Get("")
	require.Equal(t, 2, registry.Len())

	// Only the active session is touched after the clock advances past TTL.
	registry.now = func() time.Time { return base.Add(11 * time.Minute) }
	registry.Get(active.ID)
	registry.evictIdle()

	assert.Equal(t, 1, registry.Len())
	assert.Same(t, active, registry.Get(active.ID))

	// The evicted ID now builds a fresh session.
	rebuilt := registry.Get(idle.ID)
	assert.NotSame(t, idle, rebuilt)
}

func TestRegistry_DefaultTTL(t *testing.T) {
	registry, _ := newTestRegistry(0)
	assert.Equal(t, 30*time.Minute, registry.ttl)
}
