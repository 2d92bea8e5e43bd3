package game

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal"
)

const sentenceFetchTimeout = 3 * time.Second

// Settings are the match timings. Durations are whole seconds because they
// are broadcast as integer countdowns.
type Settings struct {
	CountdownTime int
	MatchPlayTime int
	TickInterval  time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		CountdownTime: internal.CountdownTime,
		MatchPlayTime: internal.MatchPlayTime,
		TickInterval:  internal.TickInterval,
	}
}

// Engine pairs participants and runs one state machine per room. Each room's
// transitions are serialized by its own mutex; rooms are independent.
type Engine struct {
	queue       *Queue
	registry    *Registry
	broadcaster *Broadcaster
	sentences   SentenceProvider
	fallback    SentenceProvider
	clock       clockwork.Clock
	settings    Settings
}

type Option func(*Engine)

func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithSettings(settings Settings) Option {
	return func(e *Engine) { e.settings = settings }
}

func WithSentenceProvider(provider SentenceProvider) Option {
	return func(e *Engine) { e.sentences = provider }
}

func WithRegistry(registry *Registry) Option {
	return func(e *Engine) { e.registry = registry }
}

func NewEngine(emitter Emitter, opts ...Option) *Engine {
	e := &Engine{
		queue:       NewQueue(),
		broadcaster: NewBroadcaster(emitter),
		fallback:    DefaultSentences(),
		clock:       clockwork.NewRealClock(),
		settings:    DefaultSettings(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sentences == nil {
		e.sentences = e.fallback
	}
	if e.registry == nil {
		e.registry = NewRegistry(e.clock)
	}
	return e
}

// FindMatch pairs token with the waiting participant and starts a room, or
// parks token and acknowledges.
func (e *Engine) FindMatch(ctx context.Context, token string) {
	res := e.queue.RequestMatch(token)
	if !res.Paired {
		e.broadcaster.To(token, internal.EventFindMatch, internal.AckData{Message: "matching"})
		return
	}
	e.startMatch(ctx, res.First, res.Second)
}

func (e *Engine) CancelFindMatch(token string) {
	if !e.queue.Cancel(token) {
		log.Debug().Str("token", token).Msg("cancel_find_match ignored: not the waiting participant")
		return
	}
	e.broadcaster.To(token, internal.EventCancelFindMatch, internal.AckData{Message: "matching cancelled"})
}

// MatchLog applies a progress update from token.
func (e *Engine) MatchLog(token, roomID string, logs []internal.TypingLog) {
	room, ok := e.registry.Get(roomID)
	if !ok {
		log.Debug().Str("room_id", roomID).Str("token", token).Msg("match_log ignored: unknown room")
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	e.applyLog(room, token, logs)
}

// MatchCPM forwards a typing-speed report to the sender's opponent.
func (e *Engine) MatchCPM(token, roomID string, cpm float64) {
	room, ok := e.registry.Get(roomID)
	if !ok {
		log.Debug().Str("room_id", roomID).Str("token", token).Msg("match_cpm ignored: unknown room")
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	e.forwardCPM(room, token, cpm)
}

// Disconnect clears the waiting slot and cancels every room token plays in.
func (e *Engine) Disconnect(token string) {
	if e.queue.RemoveIfWaiting(token) {
		log.Info().Str("token", token).Msg("waiting participant disconnected")
	}

	for _, room := range e.registry.FindByPlayer(token) {
		room.Mu.Lock()
		e.cancelRoom(room, token)
		room.Mu.Unlock()
	}
}

func (e *Engine) Stats() internal.MatchStats {
	_, waiting := e.queue.Waiting()
	return internal.MatchStats{
		ActiveRooms: e.registry.Count(),
		Waiting:     waiting,
	}
}

// sentenceSet asks the provider for a set and falls back to the built-in
// corpus so a pairing is never dropped.
func (e *Engine) sentenceSet(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, sentenceFetchTimeout)
	defer cancel()

	sentences, err := e.sentences.SentenceSet(ctx)
	if err == nil && len(sentences) == 0 {
		err = ErrEmptySentenceSet
	}
	if err == nil {
		return sentences
	}

	log.Warn().Err(err).Msg("sentence provider failed, using built-in corpus")
	sentences, err = e.fallback.SentenceSet(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("built-in corpus unavailable")
		return nil
	}
	return sentences
}
