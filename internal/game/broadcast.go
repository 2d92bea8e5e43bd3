package game

import (
	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal"
)

// =============================================================================
// BROADCASTING & MESSAGING
// =============================================================================

// Emitter is the transport the engine talks to. Implementations must not
// block: the engine emits while holding a room lock.
type Emitter interface {
	Join(roomID, token string)
	Leave(roomID string)
	EmitToRoom(roomID, event string, data any)
	EmitTo(token, event string, data any)
}

// View projects the room for one recipient: the recipient is always Player
// and the other participant Opponent. Scores are recomputed from the logs.
func View(room *internal.Room, recipient string) (internal.MatchView, bool) {
	player, opponent, ok := room.PlayerAndOpponent(recipient)
	if !ok {
		return internal.MatchView{}, false
	}
	return internal.MatchView{
		Player:   scoredSnapshot(room, player),
		Opponent: scoredSnapshot(room, opponent),
	}, true
}

func scoredSnapshot(room *internal.Room, p *internal.PlayerState) internal.PlayerSnapshot {
	snap := p.Snapshot(room.Sentences)
	snap.Point, snap.Accuracy = CalculatePointsAndAccuracy(p.Logs)
	return snap
}

type Broadcaster struct {
	emitter Emitter
}

func NewBroadcaster(emitter Emitter) *Broadcaster {
	return &Broadcaster{emitter: emitter}
}

// SendViews delivers event point-to-point, one perspective per participant.
func (b *Broadcaster) SendViews(room *internal.Room, event string) {
	for _, token := range room.SocketIDs() {
		view, ok := View(room, token)
		if !ok {
			continue
		}
		b.emitter.EmitTo(token, event, view)
	}

	log.Debug().
		Str("room_id", room.Id).
		Str("event", event).
		Msg("sent perspective views")
}

// ToRoom sends the same payload to every member of the room group.
func (b *Broadcaster) ToRoom(room *internal.Room, event string, data any) {
	b.emitter.EmitToRoom(room.Id, event, data)
}

func (b *Broadcaster) To(token, event string, data any) {
	b.emitter.EmitTo(token, event, data)
}

// SendMatchStart announces the start room-wide. Both sides are at zero, so
// the payload is identical for each recipient.
func (b *Broadcaster) SendMatchStart(room *internal.Room) {
	start := internal.PlayerSnapshot{}
	if len(room.Sentences) > 0 {
		start.Sentence = room.Sentences[0]
	}
	b.ToRoom(room, internal.EventMatchStart, internal.MatchStartData{
		Player:         start,
		Opponent:       start,
		MatchStartTime: room.MatchStartTime.UnixMilli(),
	})
}

func (b *Broadcaster) Join(room *internal.Room) {
	for _, token := range room.SocketIDs() {
		b.emitter.Join(room.Id, token)
	}
}

func (b *Broadcaster) Leave(room *internal.Room) {
	b.emitter.Leave(room.Id)
}
