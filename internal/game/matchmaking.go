package game

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal/metrics"
)

// MatchResult is the outcome of RequestMatch. When Paired is false the caller
// is now the waiting participant and First holds its token.
type MatchResult struct {
	Paired bool
	First  string // previously waiting participant when paired
	Second string
}

// Queue holds at most one waiting participant.
type Queue struct {
	mu      sync.Mutex
	waiting string
}

func NewQueue() *Queue {
	return &Queue{}
}

// RequestMatch pairs token with the waiting participant, or parks token as
// the new waiting participant. A token is never paired with itself.
func (q *Queue) RequestMatch(token string) MatchResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.waiting != "" && q.waiting != token {
		first := q.waiting
		q.waiting = ""
		metrics.WaitingPlayers.Set(0)

		log.Debug().Str("first", first).Str("second", token).Msg("matchmaking paired")
		return MatchResult{Paired: true, First: first, Second: token}
	}

	q.waiting = token
	metrics.WaitingPlayers.Set(1)

	log.Debug().Str("token", token).Msg("matchmaking parked waiting participant")
	return MatchResult{First: token}
}

// Cancel clears the slot only if token currently holds it.
func (q *Queue) Cancel(token string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if token == "" || q.waiting != token {
		return false
	}
	q.waiting = ""
	metrics.WaitingPlayers.Set(0)
	return true
}

// RemoveIfWaiting is the disconnect path; same semantics as Cancel.
func (q *Queue) RemoveIfWaiting(token string) bool {
	return q.Cancel(token)
}

func (q *Queue) Waiting() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiting, q.waiting != ""
}
