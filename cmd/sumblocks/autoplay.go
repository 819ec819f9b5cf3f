package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sumblocks/internal/autoplay"
	"github.com/vovakirdan/sumblocks/internal/games/sumblocks"
)

var (
	flagAutoGames    int
	flagAutoDelay    int
	flagAutoThink    int
	flagAutoMaxMoves int
	flagAutoVerbose  bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay [classic|time]",
	Short: "Let the solver bot play headless",
	Long: `Run games without a terminal UI. A bot picks the smallest set of blocks
that adds up to the target and sends its clicks through the engine's event loop.
In time mode the bot lets the clock run for --think ticks before every match.

Bot games are not written to the scoreboard.

Examples:
  sumblocks autoplay
  sumblocks autoplay time --games 20 --think 15
  sumblocks autoplay --seed 7 --verbose`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(sumblocks.ModeClassic), string(sumblocks.ModeTime)},
	RunE:      runAutoplay,
}

func init() {
	defaults := autoplay.DefaultConfig()
	autoplayCmd.Flags().IntVar(&flagAutoGames, "games", 0, "Number of games (overrides config)")
	autoplayCmd.Flags().IntVar(&flagAutoDelay, "delay", 0, "Pause after each match in milliseconds (overrides config)")
	autoplayCmd.Flags().IntVar(&flagAutoThink, "think", defaults.ThinkTicks, "Clock ticks before each match in time mode")
	autoplayCmd.Flags().IntVar(&flagAutoMaxMoves, "max-moves", defaults.MaxMoves, "Matches per game before giving up")
	autoplayCmd.Flags().BoolVar(&flagAutoVerbose, "verbose", false, "Print the final board of each game")
}

func runAutoplay(cmd *cobra.Command, args []string) error {
	cfg := autoplay.DefaultConfig()
	if len(args) == 1 {
		mode, err := sumblocks.ParseMode(args[0])
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}

	cfg.Games = appConfig.Autoplay.Games
	if cmd.Flags().Changed("games") {
		cfg.Games = flagAutoGames
	}
	delayMS := appConfig.Autoplay.DelayMS
	if cmd.Flags().Changed("delay") {
		delayMS = flagAutoDelay
	}
	cfg.Delay = time.Duration(delayMS) * time.Millisecond
	cfg.ThinkTicks = flagAutoThink
	cfg.MaxMoves = flagAutoMaxMoves
	cfg.Verbose = flagAutoVerbose
	cfg.Seed = gameSeed()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("autoplay starting", "mode", cfg.Mode, "games", cfg.Games, "seed", cfg.Seed)
	_, err := autoplay.Play(ctx, os.Stdout, cfg, logger)
	return err
}
