package game

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/typerace-backend/internal"
)

func TestRegistryLifecycle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewRegistry(clock)

	room := r.Create("a", "b", testSentences)
	require.NotEmpty(t, room.Id)
	assert.Equal(t, clock.Now(), room.CreatedAt)
	assert.Equal(t, 1, r.Count())

	got, ok := r.Get(room.Id)
	require.True(t, ok)
	assert.Same(t, room, got)

	_, ok = r.Get("")
	assert.False(t, ok)

	assert.Equal(t, []*internal.Room{room}, r.FindByPlayer("b"))
	assert.Empty(t, r.FindByPlayer("c"))

	room.Mu.Lock()
	r.Remove(room)
	r.Remove(room)
	room.Mu.Unlock()

	assert.Zero(t, r.Count())
	_, ok = r.Get(room.Id)
	assert.False(t, ok)
	assert.Empty(t, r.FindByPlayer("a"))
}

func TestRegistryRemoveCancelsTimers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewRegistry(clock)
	room := r.Create("a", "b", testSentences)

	room.Mu.Lock()
	room.ReadyTimer = StartPhaseTimer(clock, room, internal.PhaseReadyCountdown, 3, time.Second, func(*internal.GameTimer) {})
	room.PlayTimer = StartPhaseTimer(clock, room, internal.PhasePlaying, 60, time.Second, func(*internal.GameTimer) {})
	r.Remove(room)
	room.Mu.Unlock()

	for _, timer := range []*internal.GameTimer{room.ReadyTimer, room.PlayTimer} {
		assert.False(t, timer.IsActive)
		assert.ErrorIs(t, timer.Context.Err(), context.Canceled)
	}
}

func TestRegistryUsesIDGenerator(t *testing.T) {
	r := NewRegistry(clockwork.NewFakeClock(), WithIDGenerator(func() string { return "room-fixed" }))

	room := r.Create("a", "b", nil)
	assert.Equal(t, "room-fixed", room.Id)
	assert.Equal(t, internal.PhaseReadyCountdown, room.Phase)
}
