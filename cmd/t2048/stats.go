package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/scoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics",
	Long: `Print games played, wins, win rate and scores from the database.

Examples:
  t2048 stats
  t2048 stats --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func runStats(_ *cobra.Command, _ []string) {
	logger := newLogger("t2048")
	cfg := mustLoadRules()

	store := mustOpenStore()
	defer store.Close()

	tracker, err := newTracker(store, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scores: %v\n", err)
		os.Exit(1)
	}

	stats, err := tracker.Statistics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading statistics: %v\n", err)
		os.Exit(1)
	}
	printStatistics(stats)

	best, err := tracker.BestRecord()
	if err == nil && best != nil {
		fmt.Printf("  %-14s %d (max tile %d, %d moves, %s)\n", "Best game:", best.Score, best.MaxTile, best.Moves,
			best.EndedAt.Local().Format("2006-01-02 15:04"))
	}
}

func printStatistics(s scoring.Statistics) {
	fmt.Printf("  %-14s %d\n", "Played:", s.GamesPlayed)
	fmt.Printf("  %-14s %d (%d%%)\n", "Won:", s.GamesWon, s.WinRate)
	fmt.Printf("  %-14s %d\n", "Best score:", s.BestScore)
	fmt.Printf("  %-14s %d\n", "Average:", s.AverageScore)
	fmt.Printf("  %-14s %d\n", "Total:", s.TotalScore)
}
