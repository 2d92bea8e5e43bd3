package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/typerace-backend/internal"
)

func TestViewIsRecipientRelative(t *testing.T) {
	room := internal.NewRoom("room-1", "a", "b", testSentences, testStart)
	room.Players[0].Logs = []internal.TypingLog{{Sentence: "abc", Typing: "abd"}}
	room.Players[0].Advance(len(testSentences))

	forA, ok := View(room, "a")
	require.True(t, ok)
	forB, ok := View(room, "b")
	require.True(t, ok)

	assert.Equal(t, forA.Player, forB.Opponent)
	assert.Equal(t, forA.Opponent, forB.Player)

	assert.Equal(t, "a", forA.Player.SocketID)
	assert.Equal(t, 67, forA.Player.Point)
	assert.Equal(t, 67, forA.Player.Accuracy)
	assert.Equal(t, "def", forA.Player.Sentence)
	assert.Equal(t, "abc", forA.Opponent.Sentence)

	_, ok = View(room, "c")
	assert.False(t, ok)
}

func TestBroadcasterSendsPerspectives(t *testing.T) {
	emitter := newRecordingEmitter()
	b := NewBroadcaster(emitter)
	room := internal.NewRoom("room-1", "a", "b", testSentences, testStart)

	b.Join(room)
	b.SendViews(room, internal.EventMatchLog)

	forA, ok := emitter.last("a", internal.EventMatchLog).(internal.MatchView)
	require.True(t, ok)
	assert.Equal(t, "a", forA.Player.SocketID)

	forB, ok := emitter.last("b", internal.EventMatchLog).(internal.MatchView)
	require.True(t, ok)
	assert.Equal(t, "b", forB.Player.SocketID)

	b.ToRoom(room, internal.EventMatchCountdown, internal.CountdownData{Countdown: 2})
	assert.Equal(t, 1, emitter.count("a", internal.EventMatchCountdown))
	assert.Equal(t, 1, emitter.count("b", internal.EventMatchCountdown))

	b.Leave(room)
	b.ToRoom(room, internal.EventMatchCountdown, internal.CountdownData{Countdown: 1})
	assert.Equal(t, 1, emitter.count("a", internal.EventMatchCountdown))
}
