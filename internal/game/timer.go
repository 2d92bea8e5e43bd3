package game

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// StartPhaseTimer starts a repeating tick for a room phase, counting down from
// duration. onTick runs with room.Mu held. The ticker is created before this
// returns so a fake clock advanced afterwards is always observed.
func StartPhaseTimer(clock clockwork.Clock, room *internal.Room, phase internal.MatchPhase, duration int, interval time.Duration, onTick func(timer *internal.GameTimer)) *internal.GameTimer {
	ctx, cancel := context.WithCancel(context.Background())
	timer := &internal.GameTimer{
		Phase:     phase,
		Duration:  duration,
		Remaining: duration,
		IsActive:  true,
		Context:   ctx,
		Cancel:    cancel,
	}

	ticker := clock.NewTicker(interval)
	roomID := room.Id

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				room.Mu.Lock()
				// A tick can race a cancel; the room lock decides who wins.
				if ctx.Err() == nil && timer.IsActive {
					onTick(timer)
				}
				room.Mu.Unlock()

			case <-ctx.Done():
				log.Debug().
					Str("room_id", roomID).
					Str("phase", string(phase)).
					Msg("phase timer stopped")
				return
			}
		}
	}()

	log.Debug().
		Str("room_id", roomID).
		Str("phase", string(phase)).
		Int("duration", duration).
		Msg("phase timer started")

	return timer
}

// CancelPhaseTimer stops a phase timer. Safe on nil and on timers that were
// already cancelled. Callers hold room.Mu.
func CancelPhaseTimer(timer *internal.GameTimer) {
	if timer == nil || !timer.IsActive {
		return
	}
	timer.IsActive = false
	if timer.Cancel != nil {
		timer.Cancel()
	}
}
