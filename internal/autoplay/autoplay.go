// Package autoplay runs Sum Blocks headless with a solver bot. The bot
// talks to the engine only through its event loop, the same way a UI would.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sumblocks/internal/clock"
	"github.com/vovakirdan/sumblocks/internal/games/sumblocks"
)

// Why a game stopped.
const (
	ReasonGameOver  = "game_over"
	ReasonStuck     = "stuck"      // classic board with no sum left
	ReasonMoveLimit = "move_limit" // MaxMoves matches made
)

// Config controls a batch of bot games.
type Config struct {
	Mode       sumblocks.Mode
	Games      int
	Seed       int64         // first game's seed; game i uses Seed+i
	Delay      time.Duration // pause after each match
	ThinkTicks int           // clock ticks spent before each match in time mode
	MaxMoves   int           // matches per game before giving up
	Verbose    bool          // print the final board of each game
}

// DefaultConfig returns the standard bot settings.
func DefaultConfig() Config {
	return Config{
		Mode:       sumblocks.ModeClassic,
		Games:      5,
		Seed:       1,
		ThinkTicks: 8,
		MaxMoves:   500,
	}
}

// Result is the outcome of one bot game.
type Result struct {
	Game   int
	Seed   int64
	Score  int
	Level  int
	Moves  int // matches made
	Rows   int // rows forced in by the clock
	Ticks  int
	Reason string
}

// Summary aggregates a batch.
type Summary struct {
	Results []Result
	Best    int
	Mean    float64
}

// Play runs cfg.Games games and writes a line per game plus a summary to w.
func Play(ctx context.Context, w io.Writer, cfg Config, logger *log.Logger) (Summary, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Games < 1 {
		return Summary{}, fmt.Errorf("autoplay: games must be at least 1, got %d", cfg.Games)
	}
	if cfg.MaxMoves < 1 {
		cfg.MaxMoves = DefaultConfig().MaxMoves
	}

	fmt.Fprintf(w, "=== Sum Blocks AutoPlay (%s) ===\n", cfg.Mode)

	var sum Summary
	total := 0
	for i := range cfg.Games {
		seed := cfg.Seed + int64(i)
		res, board, err := playOne(ctx, cfg, seed, logger.With("game", i+1))
		if err != nil {
			return sum, err
		}
		res.Game = i + 1
		sum.Results = append(sum.Results, res)
		total += res.Score
		sum.Best = max(sum.Best, res.Score)

		if cfg.Verbose {
			fmt.Fprint(w, board)
		}
		fmt.Fprintf(w, "game %d  seed %d  score %d  level %d  matches %d  rows %d  ticks %d  (%s)\n",
			res.Game, res.Seed, res.Score, res.Level, res.Moves, res.Rows, res.Ticks, res.Reason)
	}

	sum.Mean = float64(total) / float64(len(sum.Results))
	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "Games: %d  Best: %d  Mean: %.1f\n", len(sum.Results), sum.Best, sum.Mean)
	return sum, nil
}

// bot drives one engine through its event loop.
type bot struct {
	events  chan<- sumblocks.Event
	updates <-chan sumblocks.Update
	clock   *clock.Manual
	state   sumblocks.State
	res     Result
}

// click sends a block click and waits for the engine's answer.
func (b *bot) click(ctx context.Context, id sumblocks.BlockID) (sumblocks.Outcome, error) {
	select {
	case b.events <- sumblocks.Event{Kind: sumblocks.EventClick, Block: id}:
	case <-ctx.Done():
		return sumblocks.Outcome{}, ctx.Err()
	}
	return b.await(ctx)
}

// tick fires the clock once and waits for the engine's answer.
// It reports false when the clock is not running.
func (b *bot) tick(ctx context.Context) (sumblocks.Outcome, bool, error) {
	if !b.clock.Fire() {
		return sumblocks.Outcome{}, false, nil
	}
	b.res.Ticks++
	out, err := b.await(ctx)
	if out.RowInjected {
		b.res.Rows++
	}
	return out, true, err
}

func (b *bot) await(ctx context.Context) (sumblocks.Outcome, error) {
	select {
	case u := <-b.updates:
		b.state = u.State
		return u.Outcome, nil
	case <-ctx.Done():
		return sumblocks.Outcome{}, ctx.Err()
	}
}

// playOne plays a single game and returns its result and final board.
func playOne(ctx context.Context, cfg Config, seed int64, logger *log.Logger) (Result, string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	manual := clock.NewManual(sumblocks.TickInterval)
	engine := sumblocks.NewEngine(sumblocks.NewGenerator(seed),
		sumblocks.WithTicker(manual),
		sumblocks.WithLogger(logger),
	)

	events := make(chan sumblocks.Event)
	updates := make(chan sumblocks.Update)
	b := &bot{
		events:  events,
		updates: updates,
		clock:   manual,
		state:   engine.Start(cfg.Mode),
		res:     Result{Seed: seed},
	}

	done := make(chan error, 1)
	go func() {
		done <- engine.Run(ctx, events, updates)
	}()

	err := b.play(ctx, cfg)
	close(events)
	if runErr := <-done; err == nil && runErr != nil && !errors.Is(runErr, context.Canceled) {
		err = runErr
	}
	if err != nil {
		return Result{}, "", fmt.Errorf("autoplay: seed %d: %w", seed, err)
	}

	b.res.Score = b.state.Score
	b.res.Level = b.state.Level
	logger.Debug("finished", "score", b.res.Score, "reason", b.res.Reason)
	return b.res, formatBoard(b.state), nil
}

// play makes matches until the game ends, the bot is stuck or the move cap is hit.
func (b *bot) play(ctx context.Context, cfg Config) error {
	for !b.state.GameOver {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.res.Moves >= cfg.MaxMoves {
			b.res.Reason = ReasonMoveLimit
			return nil
		}

		ids := sumblocks.FindMatch(b.state.Grid, b.state.TargetSum)
		if ids == nil {
			if !b.state.HasTimer() {
				b.res.Reason = ReasonStuck
				return nil
			}
			// Wait for the clock to force a new row in.
			_, ok, err := b.tick(ctx)
			if err != nil {
				return err
			}
			if !ok {
				break // clock stopped: the game is over
			}
			continue
		}

		if b.state.HasTimer() {
			replan, err := b.think(ctx, cfg.ThinkTicks)
			if err != nil {
				return err
			}
			if replan {
				continue
			}
		}

		for _, id := range ids {
			if _, err := b.click(ctx, id); err != nil {
				return err
			}
		}
		b.res.Moves++

		if cfg.Delay > 0 {
			select {
			case <-time.After(cfg.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	b.res.Reason = ReasonGameOver
	return nil
}

// think spends clock ticks before a move. It reports true when the board
// changed underneath the bot and the move must be planned again.
func (b *bot) think(ctx context.Context, ticks int) (bool, error) {
	for range ticks {
		out, ok, err := b.tick(ctx)
		if err != nil || !ok {
			return true, err
		}
		if out.RowInjected || out.GameOver {
			return true, nil
		}
	}
	return false, nil
}

// formatBoard renders the final grid as text.
func formatBoard(s sumblocks.State) string {
	var sb strings.Builder
	for _, row := range s.Grid.Values() {
		for _, v := range row {
			if v == 0 {
				sb.WriteString(" .")
			} else {
				fmt.Fprintf(&sb, " %d", v)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
