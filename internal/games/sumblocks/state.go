package sumblocks

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeTime    Mode = "time"
)

// ErrUnknownMode is returned by ParseMode for unrecognized names.
var ErrUnknownMode = errors.New("sumblocks: unknown mode")

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case ModeClassic:
		return ModeClassic, nil
	case ModeTime:
		return ModeTime, nil
	default:
		return "", fmt.Errorf("%w %q (want %q or %q)", ErrUnknownMode, name, ModeClassic, ModeTime)
	}
}

// Scoring, target and timer rules.
const (
	PointsPerLevel  = 1000
	BaseTarget      = 10
	MaxTargetSpread = 10

	// Timer values are kept in tenths of a second.
	TickInterval  = 100 * time.Millisecond
	tenthsPerTick = 1
	startTime     = 100
	minTime       = 50
)

// LevelFor returns the level reached with the given score.
func LevelFor(score int) int {
	return score/PointsPerLevel + 1
}

// timeLimitFor returns the timer ceiling for a level, in tenths.
func timeLimitFor(level int) int {
	return max(minTime, startTime-(level/2)*10)
}

// TargetSum draws the goal for a round at the given level:
// BaseTarget plus a random spread that widens with level, capped at MaxTargetSpread.
func (g *Generator) TargetSum(level int) int {
	spread := min(max(level, 1), MaxTargetSpread)
	return BaseTarget + g.rng.Intn(spread)
}

// State is the complete game state. Transitions take a State and return a new
// one; the Selected slice is never modified in place.
type State struct {
	Grid      Grid
	TargetSum int
	Selected  []BlockID
	Score     int
	HighScore int
	GameOver  bool
	Mode      Mode
	Level     int
	Combo     int

	timeLeft int // tenths, time mode only
	maxTime  int // tenths, time mode only
}

// HasTimer reports whether the state runs a countdown.
func (s State) HasTimer() bool {
	return s.Mode == ModeTime
}

// TimeLeft returns the remaining time in seconds (0 outside time mode).
func (s State) TimeLeft() float64 {
	return float64(s.timeLeft) / 10
}

// MaxTime returns the current timer ceiling in seconds (0 outside time mode).
func (s State) MaxTime() float64 {
	return float64(s.maxTime) / 10
}

// IsSelected reports whether id is part of the current selection.
func (s State) IsSelected(id BlockID) bool {
	return slices.Contains(s.Selected, id)
}

// SelectedSum returns the sum of the selected block values.
// Ids that no longer resolve to a block count as 0.
func (s State) SelectedSum() int {
	sum := 0
	for _, id := range s.Selected {
		if b, ok := s.Grid.Find(id); ok {
			sum += b.Value
		}
	}
	return sum
}

// Unresolved returns how many selected ids are missing from the grid.
// Anything other than 0 is a bug in a transition.
func (s State) Unresolved() int {
	n := 0
	for _, id := range s.Selected {
		if _, ok := s.Grid.Find(id); !ok {
			n++
		}
	}
	return n
}

// Outcome describes what a transition did.
type Outcome struct {
	Matched      bool // selection hit the target and was cleared
	Cleared      int  // number of blocks removed by the match
	Points       int  // points awarded by the match
	Overflow     bool // selection exceeded the target and was discarded
	RowInjected  bool // a new row was pushed in from the bottom
	NewHighScore bool // score passed the previous best
	GameOver     bool // this transition ended the game
}

// Machine applies game transitions. It draws randomness from its Generator.
type Machine struct {
	gen *Generator
}

// NewMachine creates a state machine using gen for board mutations.
func NewMachine(gen *Generator) *Machine {
	return &Machine{gen: gen}
}

// InitGame builds the opening state for mode with the bottom InitialRows filled.
func (m *Machine) InitGame(mode Mode, highScore int) State {
	grid := EmptyGrid()
	for row := Rows - InitialRows; row < Rows; row++ {
		grid[row] = m.gen.GenerateRow(row)
	}

	s := State{
		Grid:      grid,
		TargetSum: m.gen.TargetSum(1),
		Selected:  []BlockID{},
		Score:     0,
		HighScore: max(highScore, 0),
		Mode:      mode,
		Level:     1,
		Combo:     0,
	}
	if mode == ModeTime {
		s.timeLeft = startTime
		s.maxTime = startTime
	}
	return s
}

// SelectToggle adds id to the selection or removes it, then resolves the
// selection against the target. A finished game is returned unchanged.
func (m *Machine) SelectToggle(prev State, id BlockID) (State, Outcome) {
	if prev.GameOver {
		return prev, Outcome{}
	}

	next := prev
	if prev.IsSelected(id) {
		next.Selected = slices.DeleteFunc(slices.Clone(prev.Selected), func(s BlockID) bool {
			return s == id
		})
	} else {
		if _, ok := prev.Grid.Find(id); !ok {
			return prev, Outcome{}
		}
		next.Selected = append(slices.Clone(prev.Selected), id)
	}

	sum := next.SelectedSum()
	switch {
	case sum == next.TargetSum:
		return m.match(prev, next)
	case sum > next.TargetSum:
		next.Selected = []BlockID{}
		next.Combo = 0
		return next, Outcome{Overflow: true}
	}
	return next, Outcome{}
}

// match clears the selection in next, scores it against prev and advances the round.
func (m *Machine) match(prev, next State) (State, Outcome) {
	cleared := len(next.Selected)
	out := Outcome{Matched: true, Cleared: cleared}

	grid := ApplyGravity(RemoveBlocks(prev.Grid, next.Selected))

	if prev.Mode == ModeClassic {
		if CheckGameOver(grid) {
			next.Grid = grid
			next.Selected = []BlockID{}
			next.GameOver = true
			out.GameOver = true
			return next, out
		}
		grid = m.gen.ShiftUp(grid)
		out.RowInjected = true
		next.GameOver = CheckGameOver(grid)
		out.GameOver = next.GameOver
	}

	points := prev.TargetSum * cleared * (prev.Combo + 1)
	score := prev.Score + points

	next.Grid = grid
	next.Score = score
	if score > prev.HighScore {
		next.HighScore = score
		out.NewHighScore = true
	}
	// The next target uses the level from before this match's points.
	next.TargetSum = m.gen.TargetSum(prev.Level)
	next.Level = LevelFor(score)
	next.Selected = []BlockID{}
	next.Combo = prev.Combo + 1

	if prev.Mode == ModeTime {
		limit := timeLimitFor(prev.Level)
		next.timeLeft = limit
		next.maxTime = limit
	}

	out.Points = points
	return next, out
}

// Tick advances the time-mode countdown by one TickInterval. When the time
// runs out a row is forced in. Other modes and finished games are unchanged.
func (m *Machine) Tick(prev State) (State, Outcome) {
	if prev.GameOver || prev.Mode != ModeTime {
		return prev, Outcome{}
	}

	next := prev
	next.timeLeft = prev.timeLeft - tenthsPerTick
	if next.timeLeft > 0 {
		return next, Outcome{}
	}

	if CheckGameOver(prev.Grid) {
		next.timeLeft = 0
		next.GameOver = true
		return next, Outcome{GameOver: true}
	}

	limit := timeLimitFor(prev.Level)
	next.Grid = m.gen.ShiftUp(prev.Grid)
	next.GameOver = CheckGameOver(next.Grid)
	next.timeLeft = limit
	next.maxTime = limit
	next.Combo = 0
	next.Selected = []BlockID{}

	return next, Outcome{RowInjected: true, GameOver: next.GameOver}
}
