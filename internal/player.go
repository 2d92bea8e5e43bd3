package internal

import "math"

func NewPlayerState(socketID string) *PlayerState {
	return &PlayerState{SocketID: socketID}
}

// ResetProgress zeroes index, progress and score at match start.
func (p *PlayerState) ResetProgress() {
	p.CurrentSentenceIndex = 0
	p.Progress = 0
	p.Point = 0
	p.Accuracy = 0
	p.Logs = nil
}

// Advance moves to the next sentence, clamped to total.
func (p *PlayerState) Advance(total int) {
	if p.CurrentSentenceIndex < total {
		p.CurrentSentenceIndex++
	}
	if total > 0 {
		p.Progress = float64(p.CurrentSentenceIndex) / float64(total) * 100
	} else {
		p.Progress = 0
	}
}

// Complete sets the completion flag and elapsed time once. Later calls are
// no-ops and report false.
func (p *PlayerState) Complete(elapsedMs int64) bool {
	if p.IsCompleted {
		return false
	}
	p.IsCompleted = true
	p.Finished = elapsedMs
	return true
}

func (p *PlayerState) Snapshot(sentences []string) PlayerSnapshot {
	snap := PlayerSnapshot{
		SocketID:             p.SocketID,
		CurrentSentenceIndex: p.CurrentSentenceIndex,
		Progress:             int(math.Round(p.Progress)),
		Point:                p.Point,
		Accuracy:             p.Accuracy,
		IsCompleted:          p.IsCompleted,
		Finished:             p.Finished,
	}
	if p.CurrentSentenceIndex >= 0 && p.CurrentSentenceIndex < len(sentences) {
		snap.Sentence = sentences[p.CurrentSentenceIndex]
	}
	return snap
}
