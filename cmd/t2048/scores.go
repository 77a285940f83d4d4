package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresRecent bool
	flagPruneKeep    int
	flagClearYes     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Browse recorded games",
	Long: `Open the interactive scoreboard. When stdout is not a terminal the
top games are printed instead.

Examples:
  t2048 scores
  t2048 scores list --recent --limit 20
  t2048 scores export games.json
  t2048 scores import games.json
  t2048 scores prune --keep 100`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

var scoresListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print recorded games",
	Args:  cobra.NoArgs,
	Run:   runScoresList,
}

var scoresExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export statistics and history as JSON (stdout if no file)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runScoresExport,
}

var scoresImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import history from an export file (- for stdin)",
	Args:  cobra.ExactArgs(1),
	Run:   runScoresImport,
}

var scoresPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent games",
	Args:  cobra.NoArgs,
	Run:   runScoresPrune,
}

var scoresClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded games",
	Args:  cobra.NoArgs,
	Run:   runScoresClear,
}

func init() {
	scoresListCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of games to show")
	scoresListCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show newest games instead of top scores")
	scoresPruneCmd.Flags().IntVar(&flagPruneKeep, "keep", 0, "Games to keep (default: configured history size)")
	scoresClearCmd.Flags().BoolVar(&flagClearYes, "yes", false, "Confirm deletion")

	scoresCmd.AddCommand(scoresListCmd)
	scoresCmd.AddCommand(scoresExportCmd)
	scoresCmd.AddCommand(scoresImportCmd)
	scoresCmd.AddCommand(scoresPruneCmd)
	scoresCmd.AddCommand(scoresClearCmd)
}

func runScores(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		runScoresList(cmd, args)
		return
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	store := mustOpenStore()
	defer store.Close()

	if _, err := tui.RunScoreboard(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
		os.Exit(1)
	}
}

func runScoresList(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	var (
		games []storage.GameRecord
		err   error
		title = "High Scores"
	)
	if flagScoresRecent {
		title = "Recent Games"
		games, err = store.RecentGames(flagScoresLimit)
	} else {
		games, err = store.TopGames(flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(title)
	fmt.Println()

	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %-3s  %s\n", "Rank", "Score", "Max", "Moves", "Won", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %-3s  %s\n", "----", "-----", "---", "-----", "---", "----")
	for i, g := range games {
		won := "-"
		if g.Won {
			won = "yes"
		}
		dateStr := g.EndedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-8d  %-6d  %-3s  %s\n", i+1, g.Score, g.MaxTile, g.Moves, won, dateStr)
	}

	fmt.Println()
	if best, err := store.BestScore(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}

func runScoresExport(_ *cobra.Command, args []string) {
	logger := newLogger("t2048")
	cfg := mustLoadRules()
	store := mustOpenStore()
	defer store.Close()

	tracker, err := newTracker(store, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scores: %v\n", err)
		os.Exit(1)
	}
	data, err := tracker.Export()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 0 {
		os.Stdout.Write(data)
		fmt.Println()
		return
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", args[0], err)
		os.Exit(1)
	}
	fmt.Printf("Exported to %s\n", args[0])
}

func runScoresImport(_ *cobra.Command, args []string) {
	logger := newLogger("t2048")
	cfg := mustLoadRules()

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[0], err)
		os.Exit(1)
	}

	store := mustOpenStore()
	defer store.Close()

	tracker, err := newTracker(store, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scores: %v\n", err)
		os.Exit(1)
	}
	res, err := tracker.Import(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d games, skipped %d\n", res.Imported, res.Skipped)
}

func runScoresPrune(_ *cobra.Command, _ []string) {
	keep := flagPruneKeep
	if keep <= 0 {
		keep = mustLoadRules().Scoring.HistorySize
	}

	store := mustOpenStore()
	defer store.Close()

	n, err := store.PruneGames(keep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pruning: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %d games, kept the newest %d\n", n, keep)
}

func runScoresClear(_ *cobra.Command, _ []string) {
	if !flagClearYes {
		fmt.Fprintln(os.Stderr, "Refusing to delete all games without --yes")
		os.Exit(1)
	}

	store := mustOpenStore()
	defer store.Close()

	if err := store.ClearGames(); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("All games deleted")
}
