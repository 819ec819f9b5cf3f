package sumblocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playingState builds a classic state around the given values.
func playingState(gen *Generator, mode Mode, values [Rows][Cols]int) State {
	s := State{
		Grid:      buildGrid(gen, values),
		TargetSum: 10,
		Selected:  []BlockID{},
		Mode:      mode,
		Level:     1,
	}
	if mode == ModeTime {
		s.timeLeft = startTime
		s.maxTime = startTime
	}
	return s
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("classic")
	require.NoError(t, err)
	assert.Equal(t, ModeClassic, m)

	m, err = ParseMode("time")
	require.NoError(t, err)
	assert.Equal(t, ModeTime, m)

	_, err = ParseMode("zen")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestInitGameClassic(t *testing.T) {
	m := NewMachine(NewGenerator(1))
	s := m.InitGame(ModeClassic, 0)

	assert.Equal(t, 24, s.Grid.Count())
	for row := range Rows {
		for col := range Cols {
			filled := !s.Grid[row][col].Empty()
			assert.Equal(t, row >= Rows-InitialRows, filled, "cell (%d,%d)", row, col)
		}
	}
	checkPositions(t, s.Grid)

	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.Combo)
	assert.False(t, s.GameOver)
	assert.Empty(t, s.Selected)
	assert.Equal(t, 10, s.TargetSum, "level 1 target has no spread")
	assert.False(t, s.HasTimer())
	assert.Zero(t, s.TimeLeft())
	assert.Zero(t, s.MaxTime())
}

func TestInitGameTime(t *testing.T) {
	m := NewMachine(NewGenerator(1))
	s := m.InitGame(ModeTime, 450)

	assert.True(t, s.HasTimer())
	assert.Equal(t, 10.0, s.TimeLeft())
	assert.Equal(t, 10.0, s.MaxTime())
	assert.Equal(t, 450, s.HighScore)
}

func TestInitGameNegativeHighScore(t *testing.T) {
	s := NewMachine(NewGenerator(1)).InitGame(ModeClassic, -5)
	assert.Equal(t, 0, s.HighScore)
}

func TestTargetSumRange(t *testing.T) {
	gen := NewGenerator(9)

	tests := []struct {
		level    int
		min, max int
	}{
		{1, 10, 10},
		{2, 10, 11},
		{5, 10, 14},
		{10, 10, 19},
		{25, 10, 19},
	}
	for _, tt := range tests {
		for i := 0; i < 500; i++ {
			got := gen.TargetSum(tt.level)
			require.GreaterOrEqual(t, got, tt.min, "level %d", tt.level)
			require.LessOrEqual(t, got, tt.max, "level %d", tt.level)
		}
	}
}

func TestTimeLimitFor(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 90},
		{3, 90},
		{4, 80},
		{10, 50},
		{30, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timeLimitFor(tt.level), "level %d", tt.level)
	}
}

func TestSelectToggleBelowTarget(t *testing.T) {
	gen := NewGenerator(2)
	m := NewMachine(gen)
	s := playingState(gen, ModeClassic, [Rows][Cols]int{
		9: {4, 3, 0, 0, 0, 0},
	})

	next, out := m.SelectToggle(s, s.Grid[9][0].ID)
	assert.Equal(t, Outcome{}, out)
	assert.Equal(t, []BlockID{s.Grid[9][0].ID}, next.Selected)
	assert.Equal(t, 4, next.SelectedSum())
	assert.Equal(t, s.Grid, next.Grid)
	assert.Empty(t, s.Selected, "previous state must not change")

	next, _ = m.SelectToggle(next, s.Grid[9][1].ID)
	assert.Equal(t, 7, next.SelectedSum())

	// Toggling again removes it.
	next, _ = m.SelectToggle(next, s.Grid[9][0].ID)
	assert.Equal(t, []BlockID{s.Grid[9][1].ID}, next.Selected)
	assert.Equal(t, 3, next.SelectedSum())
}

func TestSelectToggleUnknownBlock(t *testing.T) {
	gen := NewGenerator(2)
	m := NewMachine(gen)
	s := playingState(gen, ModeClassic, [Rows][Cols]int{
		9: {4, 0, 0, 0, 0, 0},
	})

	next, out := m.SelectToggle(s, "nope")
	assert.Equal(t, Outcome{}, out)
	assert.Equal(t, s, next)
	assert.Zero(t, next.Unresolved())
}

func TestSelectToggleMatchScoring(t *testing.T) {
	gen := NewGenerator(3)
	m := NewMachine(gen)
	s := playingState(gen, ModeClassic, [Rows][Cols]int{
		8: {5, 0, 0, 0, 0, 0},
		9: {4, 6, 1, 0, 0, 0},
	})
	four, six := s.Grid[9][0].ID, s.Grid[9][1].ID

	s, _ = m.SelectToggle(s, four)
	next, out := m.SelectToggle(s, six)

	assert.True(t, out.Matched)
	assert.Equal(t, 2, out.Cleared)
	assert.Equal(t, 20, out.Points, "10 * 2 blocks * (combo 0 + 1)")
	assert.Equal(t, 20, next.Score)
	assert.Equal(t, 1, next.Combo)
	assert.Empty(t, next.Selected)
	assert.True(t, out.RowInjected)
	assert.False(t, next.GameOver)

	_, ok := next.Grid.Find(four)
	assert.False(t, ok)
	_, ok = next.Grid.Find(six)
	assert.False(t, ok)

	// 4 blocks - 2 cleared + 6 injected
	assert.Equal(t, 8, next.Grid.Count())
	checkPositions(t, next.Grid)

	// The 5 fell onto the bottom row, then the new row pushed it up one.
	five := s.Grid[8][0].ID
	b, ok := next.Grid.Find(five)
	require.True(t, ok)
	assert.Equal(t, Rows-2, b.Row)
}

func TestSelectToggleComboMultiplier(t *testing.T) {
	gen := NewGenerator(4)
	m := NewMachine(gen)
	s := playingState(gen, ModeClassic, [Rows][Cols]int{
		9: {7, 3, 0, 0, 0, 0},
	})
	s.Combo = 2

	s, _ = m.SelectToggle(s, s.Grid[9][0].ID)
	next, out := m.SelectToggle(s, s.Grid[9][1].ID)

	assert.Equal(t, 60, out.Points, "10 * 2 * 3")
	assert.Equal(t, 3, next.Combo)
}

func TestSelectToggleOverflow(t *testing.T) {
	gen := NewGenerator(5)
	m := NewMachine(gen)
	s := playingState(gen, ModeClassic, [Rows][Cols]int{
		9: {6, 5, 0, 0, 0, 0},
	})
	s.Combo = 3

	s, _ = m.SelectToggle(s, s.Grid[9][0].ID)
	next, out := m.SelectToggle(s, s.Grid[9][1].ID)

	assert.True(t, out.Overflow)
	assert.False(t, out.Matched)
	assert.Empty(t, next.Selected)
	assert.Equal(t, 0, next.Combo)
	assert.Equal(t, s.Grid, next.Grid)
	assert.Equal(t, 0, next.Score)
}

func TestSelectToggleIgnoredWhenGameOver(t *testing.T) {
	gen := NewGenerator(6)
	m := NewMachine(gen)
	s := playingState(gen, ModeClassic, [Rows][Cols]int{
		9: {4, 6, 0, 0, 0, 0},
	})
	s.GameOver = true

	next, out := m.SelectToggle(s, s.Grid[9][0].ID)
	assert.Equal(t, s, next)
	assert.Equal(t, Outcome{}, out)
}

func TestMatchGameOverAfterGravity(t *testing.T) {
	gen := NewGenerator(7)
	m := NewMachine(gen)

	var values [Rows][Cols]int
	for row := range Rows {
		values[row][0] = 1 // full column
	}
	values[9][1] = 4
	values[9][2] = 6
	s := playingState(gen, ModeClassic, values)

	s, _ = m.SelectToggle(s, s.Grid[9][1].ID)
	next, out := m.SelectToggle(s, s.Grid[9][2].ID)

	assert.True(t, out.Matched)
	assert.True(t, out.GameOver)
	assert.False(t, out.RowInjected, "no row after the board is already full")
	assert.True(t, next.GameOver)
	assert.Equal(t, 0, next.Score)
	assert.Empty(t, next.Selected)
	assert.Equal(t, Rows, next.Grid.Count())
}

func TestMatchGameOverAfterShift(t *testing.T) {
	gen := NewGenerator(8)
	m := NewMachine(gen)

	var values [Rows][Cols]int
	for row := 1; row < Rows; row++ {
		values[row][0] = 1 // one short of the top
	}
	values[9][1] = 4
	values[9][2] = 6
	s := playingState(gen, ModeClassic, values)

	s, _ = m.SelectToggle(s, s.Grid[9][1].ID)
	next, out := m.SelectToggle(s, s.Grid[9][2].ID)

	assert.True(t, out.Matched)
	assert.True(t, out.RowInjected)
	assert.True(t, out.GameOver)
	assert.True(t, next.GameOver)
	assert.Equal(t, 20, next.Score)
	assert.True(t, CheckGameOver(next.Grid))
}

func TestMatchTimeModeNoRow(t *testing.T) {
	gen := NewGenerator(9)
	m := NewMachine(gen)
	s := playingState(gen, ModeTime, [Rows][Cols]int{
		9: {4, 6, 2, 0, 0, 0},
	})
	s.Score = 3000
	s.Level = LevelFor(3000)
	s.timeLeft = 12

	s, _ = m.SelectToggle(s, s.Grid[9][0].ID)
	next, out := m.SelectToggle(s, s.Grid[9][1].ID)

	assert.True(t, out.Matched)
	assert.False(t, out.RowInjected)
	assert.Equal(t, 1, next.Grid.Count())
	// Level 4 before the match: max(5, 10 - 4/2) = 8 seconds.
	assert.Equal(t, 8.0, next.TimeLeft())
	assert.Equal(t, 8.0, next.MaxTime())
}

func TestMatchTargetUsesPreviousLevel(t *testing.T) {
	gen := NewGenerator(10)
	m := NewMachine(gen)
	s := playingState(gen, ModeClassic, [Rows][Cols]int{
		9: {4, 6, 0, 0, 0, 0},
	})
	s.Score = 990
	s.HighScore = 5000

	s, _ = m.SelectToggle(s, s.Grid[9][0].ID)
	next, out := m.SelectToggle(s, s.Grid[9][1].ID)

	assert.Equal(t, 1010, next.Score)
	assert.Equal(t, 2, next.Level)
	// Level 1 targets are always exactly 10; a level 2 draw could be 11.
	assert.Equal(t, 10, next.TargetSum)
	assert.False(t, out.NewHighScore)
	assert.Equal(t, 5000, next.HighScore)
}

func TestMatchNewHighScore(t *testing.T) {
	gen := NewGenerator(11)
	m := NewMachine(gen)
	s := playingState(gen, ModeClassic, [Rows][Cols]int{
		9: {4, 6, 0, 0, 0, 0},
	})
	s.HighScore = 15

	s, _ = m.SelectToggle(s, s.Grid[9][0].ID)
	next, out := m.SelectToggle(s, s.Grid[9][1].ID)

	assert.True(t, out.NewHighScore)
	assert.Equal(t, 20, next.HighScore)
}

func TestTickClassicIsNoop(t *testing.T) {
	gen := NewGenerator(12)
	m := NewMachine(gen)
	s := m.InitGame(ModeClassic, 0)

	next, out := m.Tick(s)
	assert.Equal(t, s, next)
	assert.Equal(t, Outcome{}, out)
}

func TestTickHundredTicksForcesOneRow(t *testing.T) {
	gen := NewGenerator(13)
	m := NewMachine(gen)
	s := m.InitGame(ModeTime, 0)
	s.Combo = 4
	s, _ = m.SelectToggle(s, s.Grid[Rows-1][0].ID)
	require.Len(t, s.Selected, 1)

	injections := 0
	for i := 1; i <= 100; i++ {
		var out Outcome
		s, out = m.Tick(s)
		if out.RowInjected {
			injections++
			assert.Equal(t, 100, i, "row forced on the tick where time runs out")
			assert.Equal(t, 0, s.Combo)
			assert.Empty(t, s.Selected)
			assert.Equal(t, 10.0, s.TimeLeft())
		} else {
			assert.Equal(t, 4, s.Combo)
		}
	}

	assert.Equal(t, 1, injections)
	assert.Equal(t, 30, s.Grid.Count())
	assert.False(t, s.GameOver)
}

func TestTickGameOverBeforeShift(t *testing.T) {
	gen := NewGenerator(14)
	m := NewMachine(gen)
	s := playingState(gen, ModeTime, [Rows][Cols]int{
		0: {3, 0, 0, 0, 0, 0},
		9: {1, 1, 1, 1, 1, 1},
	})
	s.timeLeft = 1

	next, out := m.Tick(s)
	assert.True(t, out.GameOver)
	assert.False(t, out.RowInjected)
	assert.True(t, next.GameOver)
	assert.Equal(t, s.Grid, next.Grid, "top row block must not be shifted away")

	again, out := m.Tick(next)
	assert.Equal(t, next, again)
	assert.Equal(t, Outcome{}, out)
}

func TestTickGameOverAfterShift(t *testing.T) {
	gen := NewGenerator(15)
	m := NewMachine(gen)

	var values [Rows][Cols]int
	for row := 1; row < Rows; row++ {
		values[row][3] = 2
	}
	s := playingState(gen, ModeTime, values)
	s.timeLeft = 1

	next, out := m.Tick(s)
	assert.True(t, out.RowInjected)
	assert.True(t, out.GameOver)
	assert.True(t, next.GameOver)
}

// TestRandomPlayInvariants drives random clicks and ticks and checks the
// invariants that must hold in every reachable state.
func TestRandomPlayInvariants(t *testing.T) {
	for _, mode := range []Mode{ModeClassic, ModeTime} {
		t.Run(string(mode), func(t *testing.T) {
			gen := NewGenerator(99)
			m := NewMachine(gen)
			s := m.InitGame(mode, 0)
			level := s.Level

			for step := 0; step < 3000 && !s.GameOver; step++ {
				blocks := s.Grid.Blocks()
				if step%3 == 0 || len(blocks) == 0 {
					s, _ = m.Tick(s)
				} else {
					b := blocks[gen.rng.Intn(len(blocks))]
					s, _ = m.SelectToggle(s, b.ID)
				}

				require.Zero(t, s.Unresolved(), "selection references missing block")
				require.GreaterOrEqual(t, s.HighScore, s.Score)
				require.Equal(t, LevelFor(s.Score), s.Level)
				require.GreaterOrEqual(t, s.Level, level)
				require.Less(t, s.SelectedSum(), s.TargetSum+1)
				level = s.Level
				checkPositions(t, s.Grid)

				seen := make(map[BlockID]bool)
				for _, b := range s.Grid.Blocks() {
					require.False(t, seen[b.ID], "duplicate block id")
					seen[b.ID] = true
				}
			}
		})
	}
}
