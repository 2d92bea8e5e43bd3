package game

import (
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal"
	"github.com/scythe504/typerace-backend/internal/metrics"
	"github.com/scythe504/typerace-backend/internal/utils"
)

// =============================================================================
// ROOM MANAGEMENT
// =============================================================================

// Registry owns the live rooms. A room is present exactly while its match has
// not reached PhaseFinished.
type Registry struct {
	store Store[string, *internal.Room]
	newID func() string
	clock clockwork.Clock
}

type RegistryOption func(*Registry)

func WithStore(store Store[string, *internal.Room]) RegistryOption {
	return func(r *Registry) { r.store = store }
}

func WithIDGenerator(newID func() string) RegistryOption {
	return func(r *Registry) { r.newID = newID }
}

func NewRegistry(clock clockwork.Clock, opts ...RegistryOption) *Registry {
	r := &Registry{
		store: NewMemoryStore[string, *internal.Room](),
		newID: utils.GenerateRoomID,
		clock: clock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create allocates a room for two participants under a fresh identifier.
func (r *Registry) Create(first, second string, sentences []string) *internal.Room {
	room := internal.NewRoom(r.newID(), first, second, sentences, r.clock.Now())
	r.store.Put(room.Id, room)
	metrics.ActiveRooms.Inc()

	log.Info().
		Str("room_id", room.Id).
		Str("player1", first).
		Str("player2", second).
		Msg("room created")

	return room
}

func (r *Registry) Get(roomID string) (*internal.Room, bool) {
	if roomID == "" {
		return nil, false
	}
	return r.store.Get(roomID)
}

// Remove cancels every timer of the room and then deletes it. Idempotent.
// Callers hold room.Mu so no tick can observe a half-removed room.
func (r *Registry) Remove(room *internal.Room) {
	if room == nil {
		return
	}

	CancelPhaseTimer(room.ReadyTimer)
	CancelPhaseTimer(room.PlayTimer)

	if !r.store.Delete(room.Id) {
		return
	}
	metrics.ActiveRooms.Dec()
	metrics.MatchDurationSeconds.Observe(r.clock.Since(room.CreatedAt).Seconds())

	log.Info().Str("room_id", room.Id).Msg("room removed")
}

// FindByPlayer returns every live room the token takes part in.
func (r *Registry) FindByPlayer(token string) []*internal.Room {
	var rooms []*internal.Room
	for _, room := range r.store.Values() {
		// Players are fixed at creation, so no room lock is needed here.
		if room.HasPlayer(token) {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

func (r *Registry) Count() int {
	return r.store.Len()
}
