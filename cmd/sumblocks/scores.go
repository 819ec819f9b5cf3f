package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sumblocks/internal/games/sumblocks"
	"github.com/vovakirdan/sumblocks/internal/platform/tui"
	"github.com/vovakirdan/sumblocks/internal/registry"
	"github.com/vovakirdan/sumblocks/internal/storage"
)

var flagScoresTUI bool

var scoresCmd = &cobra.Command{
	Use:   "scores [classic|time]",
	Short: "Show high scores",
	Long: `Display the top 10 scores for a mode, or for every mode when none is given.

Examples:
  sumblocks scores
  sumblocks scores time
  sumblocks scores --tui`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(sumblocks.ModeClassic), string(sumblocks.ModeTime)},
	RunE:      runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, args []string) error {
	gameIDs := make([]string, 0, 2)
	if len(args) == 1 {
		mode, err := sumblocks.ParseMode(args[0])
		if err != nil {
			return err
		}
		gameIDs = append(gameIDs, sumblocks.GameIDForMode(mode))
	} else {
		for _, g := range registry.List() {
			gameIDs = append(gameIDs, g.ID)
		}
	}

	store, err := storage.Open(appConfig.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresTUI {
		cfg := runtimeConfig()
		_, err := tui.RunScoreboard(tuiOptions(store), cfg.ScreenW, cfg.ScreenH, gameIDs[0])
		return err
	}

	for i, id := range gameIDs {
		if i > 0 {
			fmt.Println()
		}
		if err := printScores(store, id); err != nil {
			return err
		}
	}
	return nil
}

func printScores(store *storage.Store, gameID string) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Printf("Play 'sumblocks play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "Rank", "Score", "Level", "Date")
	fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "----", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-5d  %s\n", i+1, entry.Score, entry.Level, dateStr)
	}

	fmt.Println()
	if best, err := store.HighScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Printf("Games: %d  Avg: %.0f  Best level: %d\n", stats.GamesCount, stats.AvgScore, stats.BestLevel)
	}
	return nil
}
