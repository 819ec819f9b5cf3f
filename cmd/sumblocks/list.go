package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sumblocks/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes",
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No game modes registered.")
		return
	}

	fmt.Println("Game modes:")
	fmt.Println()
	fmt.Printf("  %-10s  %s\n", "ID", "Title")
	fmt.Printf("  %-10s  %s\n", "--", "-----")

	for _, g := range games {
		fmt.Printf("  %-10s  %s\n", g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'sumblocks play <mode>' to start.")
}
