package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sumblocks/internal/core"
	"github.com/vovakirdan/sumblocks/internal/games/sumblocks"
	"github.com/vovakirdan/sumblocks/internal/platform/tui"
	"github.com/vovakirdan/sumblocks/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [classic|time]",
	Short: "Play a game mode",
	Long: `Start a game in the given mode. Without a mode, a picker is shown first.

Controls:
  Arrows/WASD/hjkl  - Move cursor
  Space/Enter       - Select block
  Mouse click       - Select block under the pointer
  ?                 - Hint
  P/Esc             - Pause
  R                 - Restart after game over
  B                 - Back (paused or game over)
  Q                 - Quit

Examples:
  sumblocks play classic
  sumblocks play time --seed 42
  sumblocks play`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(sumblocks.ModeClassic), string(sumblocks.ModeTime)},
	RunE:      runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	opts := tuiOptions(store)
	cfg := runtimeConfig()

	restore := logToFile()
	defer restore()

	gameID := ""
	if len(args) == 1 {
		mode, err := sumblocks.ParseMode(args[0])
		if err != nil {
			return err
		}
		gameID = sumblocks.GameIDForMode(mode)
	} else {
		picked, pickedCfg, err := pickMode(opts, cfg)
		if err != nil {
			return err
		}
		if picked == "" {
			return nil
		}
		gameID, cfg = picked, pickedCfg
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	logger.Info("starting game", "mode", gameID, "seed", cfg.Seed)
	return tui.Run(game, opts, cfg)
}

// pickMode shows the mode menu until a mode is chosen or the player quits.
// Tab opens the scoreboard and returns to the menu from there.
func pickMode(opts tui.Options, cfg core.RuntimeConfig) (string, core.RuntimeConfig, error) {
	for {
		result, err := tui.RunMenu(opts, cfg)
		if err != nil {
			return "", cfg, err
		}
		cfg = result.Config

		if result.Quit {
			return "", cfg, nil
		}

		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(opts, cfg.ScreenW, cfg.ScreenH, "")
			if err != nil {
				return "", cfg, err
			}
			if goBack {
				continue
			}
			return "", cfg, nil
		}

		return result.GameID, cfg, nil
	}
}
