package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sumblocks/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the mode picker menu",
	Long: `Start Sum Blocks in interactive menu mode.

Pick a mode, play, and return to the menu when the game is over.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Scoreboard
  Q            - Quit

Examples:
  sumblocks menu
  sumblocks menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	restore := logToFile()
	defer restore()

	return tui.RunSession(tuiOptions(store), runtimeConfig())
}
