// Package sumblocks implements Sum Blocks: pick numbered blocks whose values
// add up to the target before the stack reaches the top of the board.
package sumblocks

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sumblocks/internal/core"
	"github.com/vovakirdan/sumblocks/internal/registry"
)

// Registry ids for the two modes.
const (
	GameIDClassic = "sumblocks"
	GameIDTime    = "sumblocks_time"
)

// Package-level logger shared by game instances.
var logger = log.New(io.Discard)

// SetLogger sets the logger used by games created after the call.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// GameIDForMode returns the registry id for mode.
func GameIDForMode(mode Mode) string {
	if mode == ModeTime {
		return GameIDTime
	}
	return GameIDClassic
}

// Game adapts the engine to the terminal platform: a keyboard cursor, pointer
// clicks, hints and rendering.
type Game struct {
	mode   Mode
	engine *Engine

	cursorRow int
	cursorCol int
	hint      []BlockID
	last      Outcome
	ticks     uint64

	// Last rendered board area, used to map pointer clicks to cells.
	board    core.Rect
	tooSmall bool
}

// New creates a classic mode game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewTimed creates a time mode game.
func NewTimed() *Game {
	return &Game{mode: ModeTime}
}

func init() {
	registry.Register(GameIDClassic, func() registry.Game {
		return New()
	})
	registry.Register(GameIDTime, func() registry.Game {
		return NewTimed()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameIDForMode(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeTime {
		return "Sum Blocks (Time Attack)"
	}
	return "Sum Blocks"
}

// Description explains the mode's rules in one line.
func (g *Game) Description() string {
	if g.mode == ModeTime {
		return fmt.Sprintf("A new row arrives when the clock runs out. Each match resets it (%d s at level 1).", startTime/10)
	}
	return "A new row arrives after every match. Clear blocks before they reach the top."
}

// Mode returns the game mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	opts := []Option{WithLogger(logger.With("game", g.ID()))}
	if cfg.Scores != nil {
		opts = append(opts, WithScoreKeeper(cfg.Scores, g.ID()))
	}

	g.engine = NewEngine(NewGenerator(cfg.Seed), opts...)
	g.engine.Start(g.mode)

	g.cursorRow = Rows - 1
	g.cursorCol = 0
	g.hint = nil
	g.last = Outcome{}
	g.ticks = 0
	g.tooSmall = cfg.ScreenW < minScreenW || cfg.ScreenH < minScreenH
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Step applies player input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.engine.TogglePause()
	}

	if g.engine.Phase() == PhasePlaying {
		g.moveCursor(in)

		if in.Has(core.ActionHint) {
			g.hint = FindMatch(g.engine.State().Grid, g.engine.State().TargetSum)
		}

		if in.Click != nil {
			if row, col, ok := g.cellAt(in.Click.X, in.Click.Y); ok {
				g.cursorRow, g.cursorCol = row, col
				g.selectAtCursor()
			}
		} else if in.Has(core.ActionSelect) {
			g.selectAtCursor()
		}
	}

	return core.StepResult{State: g.State()}
}

// Advance applies one clock tick.
func (g *Game) Advance() core.StepResult {
	g.ticks++
	out := g.engine.Tick()
	if out.RowInjected {
		g.hint = nil
		g.last = out
	}
	return core.StepResult{State: g.State()}
}

// TimerActive reports whether the countdown is running.
func (g *Game) TimerActive() bool {
	return g.engine != nil && g.engine.TimerActive()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := g.engine.State()
	return core.GameState{
		Score:     s.Score,
		HighScore: s.HighScore,
		Level:     s.Level,
		GameOver:  s.GameOver,
		Paused:    g.engine.Paused(),
	}
}

// moveCursor applies directional actions to the cursor.
func (g *Game) moveCursor(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.cursorRow--
	case in.Has(core.ActionDown):
		g.cursorRow++
	case in.Has(core.ActionLeft):
		g.cursorCol--
	case in.Has(core.ActionRight):
		g.cursorCol++
	}
	g.cursorRow = core.Clamp(g.cursorRow, 0, Rows-1)
	g.cursorCol = core.Clamp(g.cursorCol, 0, Cols-1)
}

// selectAtCursor toggles the block under the cursor, if any.
func (g *Game) selectAtCursor() {
	b := g.engine.State().Grid[g.cursorRow][g.cursorCol]
	if b.Empty() {
		return
	}

	out := g.engine.Click(b.ID)
	if out != (Outcome{}) {
		g.last = out
	}
	if out.Matched || out.Overflow {
		g.hint = nil
	}
}

// cellAt maps a screen position to a board cell using the last render.
func (g *Game) cellAt(x, y int) (row, col int, ok bool) {
	return g.board.CellAt(x, y, cellWidth)
}
