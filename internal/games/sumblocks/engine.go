package sumblocks

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sumblocks/internal/core"
)

// Phase is the coarse lifecycle state of an engine.
type Phase int

const (
	PhasePlaying Phase = iota
	PhasePaused
	PhaseGameOver
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Ticker delivers clock ticks while started. Start and Stop must be idempotent.
type Ticker interface {
	Start()
	Stop()
	C() <-chan time.Time
}

// EventKind identifies an input event for Engine.Run.
type EventKind int

const (
	EventClick EventKind = iota
	EventPause
	EventTick
)

// Event is a single input delivered to Engine.Run.
type Event struct {
	Kind  EventKind
	Block BlockID // EventClick only
}

// Update is published by Engine.Run after every processed event.
type Update struct {
	State   State
	Outcome Outcome
	Phase   Phase
}

// Engine owns the authoritative State and is its only writer.
// It refuses transitions while paused or after game over, persists new best
// scores, and keeps its Ticker running only while the countdown matters.
type Engine struct {
	machine *Machine
	state   State
	paused  bool
	started bool

	gameID string
	scores core.ScoreKeeper
	ticker Ticker
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithScoreKeeper persists best scores for gameID through keeper.
func WithScoreKeeper(keeper core.ScoreKeeper, gameID string) Option {
	return func(e *Engine) {
		e.scores = keeper
		e.gameID = gameID
	}
}

// WithTicker lets the engine start and stop t as the game requires.
func WithTicker(t Ticker) Option {
	return func(e *Engine) {
		e.ticker = t
	}
}

// WithLogger sets the logger for gameplay events.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine drawing blocks and targets from gen.
func NewEngine(gen *Generator, opts ...Option) *Engine {
	e := &Engine{
		machine: NewMachine(gen),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a new game in mode, seeding the best score from the keeper.
func (e *Engine) Start(mode Mode) State {
	e.state = e.machine.InitGame(mode, e.loadHighScore())
	e.paused = false
	e.started = true
	e.logger.Debug("game started", "mode", mode, "target", e.state.TargetSum, "best", e.state.HighScore)
	e.syncTicker()
	return e.state
}

// loadHighScore returns the persisted best score, or 0.
func (e *Engine) loadHighScore() int {
	if e.scores == nil {
		return 0
	}
	score, ok, err := e.scores.LoadHighScore(e.gameID)
	if err != nil {
		e.logger.Warn("could not load high score", "game", e.gameID, "error", err)
		return 0
	}
	if !ok {
		return 0
	}
	return score
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// Phase returns the lifecycle phase.
func (e *Engine) Phase() Phase {
	switch {
	case e.state.GameOver:
		return PhaseGameOver
	case e.paused:
		return PhasePaused
	default:
		return PhasePlaying
	}
}

// SetPaused pauses or resumes play. Has no effect once the game is over.
func (e *Engine) SetPaused(paused bool) {
	if !e.started || e.state.GameOver || e.paused == paused {
		return
	}
	e.paused = paused
	e.logger.Debug("pause toggled", "paused", paused)
	e.syncTicker()
}

// TogglePause flips the pause flag.
func (e *Engine) TogglePause() {
	e.SetPaused(!e.paused)
}

// TimerActive reports whether clock ticks should currently be delivered.
func (e *Engine) TimerActive() bool {
	return e.started && e.state.Mode == ModeTime && !e.state.GameOver && !e.paused
}

// Click toggles the selection of a block.
func (e *Engine) Click(id BlockID) Outcome {
	if !e.accepting() {
		return Outcome{}
	}
	next, out := e.machine.SelectToggle(e.state, id)
	e.apply(next, out)
	return out
}

// Tick applies one clock tick.
func (e *Engine) Tick() Outcome {
	if !e.accepting() {
		return Outcome{}
	}
	next, out := e.machine.Tick(e.state)
	e.apply(next, out)
	return out
}

// Handle dispatches a single event.
func (e *Engine) Handle(ev Event) Outcome {
	switch ev.Kind {
	case EventClick:
		return e.Click(ev.Block)
	case EventPause:
		e.TogglePause()
	case EventTick:
		return e.Tick()
	}
	return Outcome{}
}

// Stop halts the ticker. The state is kept for display.
func (e *Engine) Stop() {
	if e.ticker != nil {
		e.ticker.Stop()
	}
}

func (e *Engine) accepting() bool {
	return e.started && !e.paused && !e.state.GameOver
}

// apply installs next as the current state and handles side effects.
func (e *Engine) apply(next State, out Outcome) {
	e.state = next

	switch {
	case out.Matched:
		e.logger.Debug("match", "cleared", out.Cleared, "points", out.Points, "combo", next.Combo, "target", next.TargetSum)
	case out.Overflow:
		e.logger.Debug("selection overflow")
	}
	if out.RowInjected && !out.Matched {
		e.logger.Debug("forced row")
	}

	if out.NewHighScore && e.scores != nil {
		if err := e.scores.SaveHighScore(e.gameID, next.HighScore); err != nil {
			e.logger.Warn("could not save high score", "game", e.gameID, "error", err)
		}
	}
	if out.GameOver {
		e.logger.Info("game over", "mode", next.Mode, "score", next.Score, "level", next.Level)
	}

	e.syncTicker()
}

// syncTicker starts or stops the ticker to match TimerActive.
func (e *Engine) syncTicker() {
	if e.ticker == nil {
		return
	}
	if e.TimerActive() {
		e.ticker.Start()
	} else {
		e.ticker.Stop()
	}
}

// Run processes events and ticker ticks on the calling goroutine until ctx is
// done or events is closed. After each event an Update is sent on updates
// when it is non-nil. The ticker is stopped on return.
func (e *Engine) Run(ctx context.Context, events <-chan Event, updates chan<- Update) error {
	var ticks <-chan time.Time
	if e.ticker != nil {
		ticks = e.ticker.C()
	}
	defer e.Stop()

	for {
		var out Outcome
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			out = e.Handle(ev)
		case <-ticks:
			// Ticks left in the channel after a stop are ignored by Tick.
			out = e.Tick()
		}

		if updates == nil {
			continue
		}
		select {
		case updates <- Update{State: e.state, Outcome: out, Phase: e.Phase()}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
