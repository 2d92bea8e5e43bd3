package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePairsDistinctParticipants(t *testing.T) {
	q := NewQueue()

	first := q.RequestMatch("a")
	assert.False(t, first.Paired)

	second := q.RequestMatch("b")
	require.True(t, second.Paired)
	assert.Equal(t, "a", second.First)
	assert.Equal(t, "b", second.Second)

	_, waiting := q.Waiting()
	assert.False(t, waiting, "slot must be consumed by the pairing")
}

func TestQueueNeverPairsWithItself(t *testing.T) {
	q := NewQueue()

	assert.False(t, q.RequestMatch("a").Paired)
	assert.False(t, q.RequestMatch("a").Paired)

	token, waiting := q.Waiting()
	require.True(t, waiting)
	assert.Equal(t, "a", token)

	res := q.RequestMatch("b")
	require.True(t, res.Paired)
	assert.Equal(t, "a", res.First)
}

func TestQueueCancelOnlyClearsOwnSlot(t *testing.T) {
	q := NewQueue()
	q.RequestMatch("a")

	assert.False(t, q.Cancel("b"), "stale cancel must not evict another waiter")
	token, waiting := q.Waiting()
	require.True(t, waiting)
	assert.Equal(t, "a", token)

	assert.True(t, q.Cancel("a"))
	_, waiting = q.Waiting()
	assert.False(t, waiting)

	assert.False(t, q.Cancel("a"), "second cancel is a no-op")
}

func TestQueueRemoveIfWaitingAfterPairing(t *testing.T) {
	q := NewQueue()
	q.RequestMatch("a")
	q.RequestMatch("b")

	assert.False(t, q.RemoveIfWaiting("a"))
	assert.False(t, q.RemoveIfWaiting("b"))

	q.RequestMatch("c")
	assert.True(t, q.RemoveIfWaiting("c"))
	assert.False(t, q.RequestMatch("d").Paired)
}
