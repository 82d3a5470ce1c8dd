// ABOUTME: Timed, cancellable playback of coordination events with exactly-once completion.
// ABOUTME: One goroutine per playback owns a timer; state is guarded by a mutex and exposed via snapshots.
package playback

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/2389-research/lifeline/emergency"
	"github.com/2389-research/lifeline/metrics"
)

// Default timing.
const (
	DefaultInterval    = 1500 * time.Millisecond
	DefaultSettleDelay = 1500 * time.Millisecond
)

// ErrAlreadyStarted is returned by Start on an engine that has been started before.
var ErrAlreadyStarted = errors.New("playback: already started")

// State is the engine lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// LogEntry is an emitted event with its emission time.
type LogEntry struct {
	emergency.PlaybackEvent
	Timestamp time.Time `json:"timestamp"`
}

// Update is delivered to the observer after each emitted event.
type Update struct {
	Entry   LogEntry               `json:"entry"`
	Index   int                    `json:"index"`
	Total   int                    `json:"total"`
	NewNode *emergency.VisualNode  `json:"newNode,omitempty"`
	Nodes   []emergency.VisualNode `json:"nodes"`
}

// Config controls timing and observation. Zero durations use the defaults.
type Config struct {
	Interval    time.Duration
	SettleDelay time.Duration
	// Rand positions discovered nodes. Nil uses a time-seeded source.
	Rand *rand.Rand
	// Observer is called from the engine goroutine after each event.
	Observer func(Update)
	Metrics  *metrics.Registry
}

// Engine replays one event list. An Engine is single-use.
type Engine struct {
	cfg Config

	mu    sync.Mutex
	state State
	log   []LogEntry
	nodes []emergency.VisualNode
	seen  map[string]bool

	complete sync.Once
	done     chan struct{}
}

// NewEngine creates an idle engine.
func NewEngine(cfg Config) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	} else if cfg.SettleDelay == 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Engine{cfg: cfg, done: make(chan struct{})}
}

// Start begins playback in a new goroutine. Events are emitted one per tick in
// order; after the last one the engine waits the settle delay and then calls
// onComplete with p exactly once. Cancelling ctx stops playback without
// calling onComplete.
func (e *Engine) Start(ctx context.Context, events []emergency.PlaybackEvent, p emergency.Plan, onComplete func(emergency.Plan)) error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.state = StatePlaying
	e.log = nil
	e.nodes = []emergency.VisualNode{MeNode}
	e.seen = map[string]bool{MeNode.ID: true}
	e.mu.Unlock()

	e.cfg.Metrics.PlaybackStarted()
	events = append([]emergency.PlaybackEvent(nil), events...)
	go e.run(ctx, events, p, onComplete)
	return nil
}

func (e *Engine) run(ctx context.Context, events []emergency.PlaybackEvent, p emergency.Plan, onComplete func(emergency.Plan)) {
	// The timer is re-armed after each emission so consecutive entries are
	// at least Interval apart even when the observer is slow.
	tick := time.NewTimer(e.cfg.Interval)
	defer tick.Stop()

	for cursor := 0; ; {
		select {
		case <-ctx.Done():
			e.finish(StateCancelled)
			return
		case <-tick.C:
		}

		if cursor >= len(events) {
			break
		}
		u, ok := e.emit(ctx, cursor, len(events), events[cursor])
		if !ok {
			e.finish(StateCancelled)
			return
		}
		cursor++
		tick.Reset(e.cfg.Interval)
		if ctx.Err() != nil {
			e.finish(StateCancelled)
			return
		}
		if e.cfg.Observer != nil {
			e.cfg.Observer(u)
		}
	}

	settle := time.NewTimer(e.cfg.SettleDelay)
	defer settle.Stop()
	select {
	case <-ctx.Done():
		e.finish(StateCancelled)
		return
	case <-settle.C:
	}

	e.mu.Lock()
	if ctx.Err() != nil {
		e.mu.Unlock()
		e.finish(StateCancelled)
		return
	}
	e.state = StateCompleted
	e.mu.Unlock()

	e.complete.Do(func() {
		if onComplete != nil {
			onComplete(p)
		}
	})
	e.finish(StateCompleted)
}

// emit appends one event and any node it announces. It reports false when ctx
// was cancelled before the event could be recorded.
func (e *Engine) emit(ctx context.Context, index, total int, evt emergency.PlaybackEvent) (Update, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ctx.Err() != nil {
		return Update{}, false
	}

	entry := LogEntry{PlaybackEvent: evt, Timestamp: time.Now()}
	e.log = append(e.log, entry)
	u := Update{Entry: entry, Index: index, Total: total}

	if evt.Kind == emergency.KindFound {
		node := DeriveNode(index, evt, e.cfg.Rand)
		if !e.seen[node.ID] {
			e.seen[node.ID] = true
			e.nodes = append(e.nodes, node)
			u.NewNode = &node
		}
	}
	u.Nodes = append([]emergency.VisualNode(nil), e.nodes...)
	e.cfg.Metrics.RecordPlaybackEvent(string(evt.Kind))
	return u, true
}

// finish records the terminal state and releases waiters. Safe to call more than once.
func (e *Engine) finish(state State) {
	e.mu.Lock()
	select {
	case <-e.done:
		e.mu.Unlock()
		return
	default:
	}
	e.state = state
	n := len(e.log)
	close(e.done)
	e.mu.Unlock()

	e.cfg.Metrics.PlaybackFinished(state.String())
	log.Printf("component=playback action=finished state=%s events=%d", state, n)
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Log returns a copy of the emitted entries.
func (e *Engine) Log() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]LogEntry(nil), e.log...)
}

// Nodes returns a copy of the visual nodes discovered so far.
func (e *Engine) Nodes() []emergency.VisualNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]emergency.VisualNode(nil), e.nodes...)
}

// Done is closed when playback completes or is cancelled.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}
