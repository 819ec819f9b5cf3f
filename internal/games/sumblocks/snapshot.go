package sumblocks

// Snapshot captures the game state for determinism testing and replay.
// Block ids are random and excluded; values and positions are compared.
type Snapshot struct {
	Ticks     uint64
	Mode      string // "classic" or "time"
	Phase     string
	Level     int
	Target    int
	Score     int
	HighScore int
	Combo     int
	TimeLeft  float64
	Selected  int
	Board     [Rows][Cols]int
	Blocks    int
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	s := g.engine.State()
	return Snapshot{
		Ticks:     g.ticks,
		Mode:      string(g.mode),
		Phase:     g.engine.Phase().String(),
		Level:     s.Level,
		Target:    s.TargetSum,
		Score:     s.Score,
		HighScore: s.HighScore,
		Combo:     s.Combo,
		TimeLeft:  s.TimeLeft(),
		Selected:  len(s.Selected),
		Board:     s.Grid.Values(),
		Blocks:    s.Grid.Count(),
	}
}
