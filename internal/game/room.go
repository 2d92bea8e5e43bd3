package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal"
	"github.com/scythe504/typerace-backend/internal/metrics"
)

// =============================================================================
// ROOM STATE MACHINE
//   ready_countdown -> playing -> finished
// Every function below except startMatch runs with room.Mu held.
// =============================================================================

// startMatch creates the room, joins both participants to its group and
// starts the ready countdown. The room is registered before its sentences are
// fetched so that Disconnect can find and cancel it during the fetch.
func (e *Engine) startMatch(ctx context.Context, first, second string) *internal.Room {
	room := e.registry.Create(first, second, nil)
	sentences := e.sentenceSet(ctx)

	room.Mu.Lock()
	defer room.Mu.Unlock()

	// Cancelled by a disconnect while the sentences were loading.
	if room.IsFinished() {
		log.Debug().Str("room_id", room.Id).Msg("room cancelled before the countdown started")
		return room
	}

	room.Sentences = sentences
	e.broadcaster.Join(room)
	room.ReadyTimer = StartPhaseTimer(e.clock, room, internal.PhaseReadyCountdown,
		e.settings.CountdownTime, e.settings.TickInterval,
		func(timer *internal.GameTimer) { e.onReadyTick(room, timer) })

	e.broadcaster.ToRoom(room, internal.EventFoundMatch, internal.FoundMatchData{
		RoomID:  room.Id,
		Message: "match found",
	})

	log.Info().
		Str("room_id", room.Id).
		Int("sentences", len(sentences)).
		Int("countdown", e.settings.CountdownTime).
		Msg("match found, ready countdown started")

	return room
}

func (e *Engine) onReadyTick(room *internal.Room, timer *internal.GameTimer) {
	if room.Phase != internal.PhaseReadyCountdown {
		return
	}

	timer.Remaining--
	e.broadcaster.ToRoom(room, internal.EventMatchCountdown, internal.CountdownData{
		Countdown: timer.Remaining,
	})

	if timer.Remaining <= 0 {
		e.beginPlay(room)
	}
}

// beginPlay moves the room from the ready countdown into play.
func (e *Engine) beginPlay(room *internal.Room) {
	CancelPhaseTimer(room.ReadyTimer)

	room.Phase = internal.PhasePlaying
	room.MatchStartTime = e.clock.Now()
	for _, p := range room.Players {
		p.ResetProgress()
	}

	room.PlayTimer = StartPhaseTimer(e.clock, room, internal.PhasePlaying,
		e.settings.MatchPlayTime, e.settings.TickInterval,
		func(timer *internal.GameTimer) { e.onPlayTick(room, timer) })

	e.broadcaster.SendMatchStart(room)
	e.broadcaster.ToRoom(room, internal.EventMatchRemainingTime, internal.RemainingTimeData{
		MatchPlayTime: e.settings.MatchPlayTime,
		RemainingTime: e.settings.MatchPlayTime,
	})

	log.Info().
		Str("room_id", room.Id).
		Time("match_start", room.MatchStartTime).
		Int("play_time", e.settings.MatchPlayTime).
		Msg("match started")
}

func (e *Engine) onPlayTick(room *internal.Room, timer *internal.GameTimer) {
	if room.Phase != internal.PhasePlaying {
		return
	}

	timer.Remaining--
	e.broadcaster.ToRoom(room, internal.EventMatchRemainingTime, internal.RemainingTimeData{
		MatchPlayTime: e.settings.MatchPlayTime,
		RemainingTime: timer.Remaining,
	})

	if timer.Remaining <= 0 {
		e.expireMatch(room)
	}
}

// expireMatch ends a match whose play time ran out. Players who had not
// finished are completed with the full play duration.
func (e *Engine) expireMatch(room *internal.Room) {
	full := (time.Duration(e.settings.MatchPlayTime) * time.Second).Milliseconds()
	for _, p := range room.Players {
		if p.Complete(full) {
			log.Debug().Str("room_id", room.Id).Str("token", p.SocketID).Msg("player completed by timeout")
		}
		refreshScore(p)
	}

	e.broadcaster.SendViews(room, internal.EventMatchResult)
	e.finish(room, metrics.OutcomeTimeout)
}

// applyLog handles one progress update. Updates from the two players may
// interleave in any order, so both players' derived fields are recomputed.
func (e *Engine) applyLog(room *internal.Room, token string, logs []internal.TypingLog) {
	if room.Phase != internal.PhasePlaying {
		log.Debug().Str("room_id", room.Id).Str("phase", string(room.Phase)).Msg("match_log ignored: not playing")
		return
	}
	player, opponent, ok := room.PlayerAndOpponent(token)
	if !ok {
		log.Debug().Str("room_id", room.Id).Str("token", token).Msg("match_log ignored: not a participant")
		return
	}

	player.Logs = append([]internal.TypingLog(nil), logs...)

	total := len(room.Sentences)
	player.Advance(total)
	if player.CurrentSentenceIndex == total {
		if player.Complete(e.clock.Since(room.MatchStartTime).Milliseconds()) {
			log.Info().
				Str("room_id", room.Id).
				Str("token", token).
				Int64("finished_ms", player.Finished).
				Msg("player completed")
		}
	}

	refreshScore(player)
	refreshScore(opponent)

	if room.BothCompleted() {
		e.broadcaster.SendViews(room, internal.EventMatchResult)
		e.finish(room, metrics.OutcomeCompleted)
		return
	}

	e.broadcaster.SendViews(room, internal.EventMatchLog)
}

func (e *Engine) forwardCPM(room *internal.Room, token string, cpm float64) {
	if room.IsFinished() {
		return
	}
	player, opponent, ok := room.PlayerAndOpponent(token)
	if !ok {
		log.Debug().Str("room_id", room.Id).Str("token", token).Msg("match_cpm ignored: not a participant")
		return
	}

	player.CPM = cpm
	e.broadcaster.To(opponent.SocketID, internal.EventOpponentCPM, internal.OpponentCPMData{CPM: cpm})
}

// cancelRoom ends the room because leaver disconnected, in any phase.
func (e *Engine) cancelRoom(room *internal.Room, leaver string) {
	if room.IsFinished() {
		return
	}
	_, opponent, ok := room.PlayerAndOpponent(leaver)
	if !ok {
		return
	}

	e.broadcaster.To(opponent.SocketID, internal.EventMatchCancelled, internal.CancelledData{
		Reason: internal.ReasonOpponentDisconnected,
	})

	log.Info().
		Str("room_id", room.Id).
		Str("leaver", leaver).
		Str("phase", string(room.Phase)).
		Msg("match cancelled by disconnect")

	e.finish(room, metrics.OutcomeCancelled)
}

// finish is the single terminal transition: timers are cancelled before the
// registry entry disappears.
func (e *Engine) finish(room *internal.Room, outcome string) {
	room.Phase = internal.PhaseFinished
	e.registry.Remove(room)
	e.broadcaster.Leave(room)
	metrics.MatchesTotal.WithLabelValues(outcome).Inc()

	log.Info().
		Str("room_id", room.Id).
		Str("outcome", outcome).
		Msg("match finished")
}

func refreshScore(p *internal.PlayerState) {
	p.Point, p.Accuracy = CalculatePointsAndAccuracy(p.Logs)
}
