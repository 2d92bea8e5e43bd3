package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/scythe504/typerace-backend/internal"
	"github.com/scythe504/typerace-backend/internal/utils"
)

type sentEvent struct {
	To    string
	Room  string // set when delivered through a room group
	Event string
	Data  any
}

// recordingEmitter captures everything the engine sends, expanding room-wide
// emits into one entry per group member.
type recordingEmitter struct {
	mu     sync.Mutex
	groups map[string][]string
	events []sentEvent
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{groups: make(map[string][]string)}
}

func (r *recordingEmitter) Join(roomID, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[roomID] = append(r.groups[roomID], token)
}

func (r *recordingEmitter) Leave(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, roomID)
}

func (r *recordingEmitter) EmitToRoom(roomID, event string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.groups[roomID] {
		r.events = append(r.events, sentEvent{To: token, Room: roomID, Event: event, Data: data})
	}
}

func (r *recordingEmitter) EmitTo(token, event string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{To: token, Event: event, Data: data})
}

func (r *recordingEmitter) received(token, event string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, ev := range r.events {
		if ev.To == token && ev.Event == event {
			out = append(out, ev.Data)
		}
	}
	return out
}

func (r *recordingEmitter) count(token, event string) int {
	return len(r.received(token, event))
}

func (r *recordingEmitter) last(token, event string) any {
	got := r.received(token, event)
	if len(got) == 0 {
		return nil
	}
	return got[len(got)-1]
}

func (r *recordingEmitter) inGroup(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.groups[roomID]...)
}

var testSentences = []string{"abc", "def", "ghi"}

var testStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Ticks are driven by hand in most tests, so the interval is long enough that
// advancing the fake clock for elapsed times never fires a ticker.
var manualSettings = Settings{CountdownTime: 3, MatchPlayTime: 5, TickInterval: time.Hour}

type testEngine struct {
	*Engine
	emitter *recordingEmitter
	clock   *clockwork.FakeClock
}

func newTestEngine(t *testing.T, settings Settings) *testEngine {
	t.Helper()

	clock := clockwork.NewFakeClock()
	emitter := newRecordingEmitter()

	n := 0
	registry := NewRegistry(clock, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("room-%d", n)
	}))
	provider := NewStaticSentences([]utils.SentenceSet{{Name: "test", Sentences: testSentences}})

	e := NewEngine(emitter,
		WithClock(clock),
		WithSettings(settings),
		WithSentenceProvider(provider),
		WithRegistry(registry),
	)
	return &testEngine{Engine: e, emitter: emitter, clock: clock}
}

// pair matches a and b and returns their room.
func (te *testEngine) pair(t *testing.T, a, b string) *internal.Room {
	t.Helper()
	te.FindMatch(context.Background(), a)
	te.FindMatch(context.Background(), b)

	rooms := te.registry.FindByPlayer(a)
	if len(rooms) != 1 {
		t.Fatalf("expected one room for %s, got %d", a, len(rooms))
	}
	return rooms[0]
}

func (te *testEngine) readyTick(room *internal.Room) {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.ReadyTimer != nil && room.ReadyTimer.IsActive {
		te.onReadyTick(room, room.ReadyTimer)
	}
}

func (te *testEngine) playTick(room *internal.Room) {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.PlayTimer != nil && room.PlayTimer.IsActive {
		te.onPlayTick(room, room.PlayTimer)
	}
}

// startPlaying runs the whole ready countdown.
func (te *testEngine) startPlaying(room *internal.Room) {
	for i := 0; i < te.settings.CountdownTime; i++ {
		te.readyTick(room)
	}
}

// typed builds a log in which the first n sentences were typed exactly.
func typed(n int) []internal.TypingLog {
	logs := make([]internal.TypingLog, 0, n)
	for _, s := range testSentences[:n] {
		logs = append(logs, internal.TypingLog{Sentence: s, Typing: s})
	}
	return logs
}

type failingProvider struct{}

func (failingProvider) SentenceSet(context.Context) ([]string, error) {
	return nil, errors.New("database unavailable")
}

// gatedProvider holds SentenceSet until release is closed.
type gatedProvider struct {
	started chan struct{}
	release chan struct{}
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{started: make(chan struct{}), release: make(chan struct{})}
}

func (p *gatedProvider) SentenceSet(ctx context.Context) ([]string, error) {
	close(p.started)
	select {
	case <-p.release:
		return testSentences, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
