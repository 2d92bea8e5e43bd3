package internal

import "time"

func NewRoom(id string, first, second string, sentences []string, createdAt time.Time) *Room {
	return &Room{
		Id:        id,
		Players:   [PlayersPerRoom]*PlayerState{NewPlayerState(first), NewPlayerState(second)},
		Phase:     PhaseReadyCountdown,
		Sentences: sentences,
		CreatedAt: createdAt,
	}
}

// Methods (Room Struct)

// PlayerAndOpponent resolves a token to its own state and the other
// participant's. ok is false when the token is not part of this room.
func (r *Room) PlayerAndOpponent(token string) (player *PlayerState, opponent *PlayerState, ok bool) {
	switch token {
	case r.Players[0].SocketID:
		return r.Players[0], r.Players[1], true
	case r.Players[1].SocketID:
		return r.Players[1], r.Players[0], true
	}
	return nil, nil, false
}

func (r *Room) HasPlayer(token string) bool {
	_, _, ok := r.PlayerAndOpponent(token)
	return ok
}

func (r *Room) BothCompleted() bool {
	return r.Players[0].IsCompleted && r.Players[1].IsCompleted
}

func (r *Room) SocketIDs() []string {
	return []string{r.Players[0].SocketID, r.Players[1].SocketID}
}

func (r *Room) IsFinished() bool {
	return r.Phase == PhaseFinished
}
