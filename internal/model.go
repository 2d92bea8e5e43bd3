package internal

import (
	"context"
	"sync"
	"time"
)

const (
	CountdownTime  = 3  // seconds before a paired match starts
	MatchPlayTime  = 60 // seconds a match lasts once started
	TickInterval   = time.Second
	PlayersPerRoom = 2
)

type MatchPhase string

const (
	PhaseReadyCountdown MatchPhase = "ready_countdown"
	PhasePlaying        MatchPhase = "playing"
	PhaseFinished       MatchPhase = "finished"
)

// TypingLog is one (target sentence, typed text) pair submitted by a client.
type TypingLog struct {
	Sentence string `json:"sentence"`
	Typing   string `json:"typing"`
}

type GameTimer struct {
	Phase     MatchPhase         `json:"phase"`
	Duration  int                `json:"duration"`
	Remaining int                `json:"remaining"`
	IsActive  bool               `json:"is_active"`
	Context   context.Context    `json:"-"`
	Cancel    context.CancelFunc `json:"-"`
}

type PlayerState struct {
	SocketID             string
	Progress             float64
	CurrentSentenceIndex int
	Point                int
	Accuracy             int
	IsCompleted          bool
	Finished             int64 // ms since match start, set once with IsCompleted

	// Replaced wholesale on every match_log
	Logs []TypingLog
	CPM  float64
}

type Room struct {
	Id      string
	Players [PlayersPerRoom]*PlayerState

	// Match state
	Phase          MatchPhase
	Sentences      []string
	CreatedAt      time.Time
	MatchStartTime time.Time

	// Timers; the ready countdown and the remaining-time ticker never overlap
	ReadyTimer *GameTimer
	PlayTimer  *GameTimer

	// Concurrency control
	Mu sync.Mutex
}
