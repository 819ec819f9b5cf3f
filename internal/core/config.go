package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Redraw rate in frames per second (default 30)
	Seed     int64 // RNG seed for deterministic gameplay

	// Scores persists best scores between games. Nil means no persistence.
	Scores ScoreKeeper
}

// ScoreKeeper loads and saves a game's best score.
// LoadHighScore reports false when nothing has been stored yet.
type ScoreKeeper interface {
	LoadHighScore(gameID string) (int, bool, error)
	SaveHighScore(gameID string, score int) error
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score     int  // Current score
	HighScore int  // Best score known to the game
	Level     int  // Current difficulty level
	GameOver  bool // Whether the game has ended
	Paused    bool // Whether the game is paused
}

// StepResult is returned by Game.Step() and Game.Advance().
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State GameState
}
