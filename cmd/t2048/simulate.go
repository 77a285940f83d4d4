package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/autoplay"
	"github.com/vovakirdan/tui-2048/internal/scoring"
)

var (
	flagSimGames    int
	flagSimMaxMoves int
	flagSimStrategy string
	flagSimRecord   bool
	flagSimQuiet    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run headless games with a bot",
	Long: `Play games without a terminal UI using a simple bot, then print
statistics. Use --seed for reproducible runs and --record to store the
games in the scores database.

Strategies: ` + strings.Join(autoplay.Names(), ", ") + `

Examples:
  t2048 simulate
  t2048 simulate --games 500 --strategy greedy --seed 1
  t2048 simulate --preset quick --record`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&flagSimGames, "games", "n", 10, "Number of games to play")
	simulateCmd.Flags().IntVar(&flagSimMaxMoves, "max-moves", 0, "Move limit per game (0 = no limit)")
	simulateCmd.Flags().StringVar(&flagSimStrategy, "strategy", "corner", "Bot strategy")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Record games in the scores database")
	simulateCmd.Flags().BoolVarP(&flagSimQuiet, "quiet", "q", false, "Only print the summary")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := newLogger("t2048-sim")
	cfg := mustLoadRules()

	strategy, err := autoplay.ByName(flagSimStrategy, flagSeed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var rec scoring.Recorder = scoring.NewMemoryRecorder()
	if flagSimRecord {
		store := mustOpenStore()
		defer store.Close()
		rec = store
	}

	tracker, err := newTracker(rec, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scores: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One engine for the run so --seed covers every game
	engine := newEngine(cfg, tracker, logger)
	played := 0
	for i := range flagSimGames {
		engine.InitGame()
		res, err := autoplay.Play(ctx, engine, strategy, flagSimMaxMoves)
		if err != nil {
			logger.Warn("simulation stopped", "game", i+1, "err", err)
			break
		}
		if !res.Over {
			// Move limit hit: record what the game reached
			tracker.EndGame(res.Won, res.MaxTile)
		}
		played++

		if !flagSimQuiet {
			won := ""
			if res.Won {
				won = " (won)"
			}
			fmt.Printf("  #%-4d  score %-7d  max %-6d  moves %d%s\n", i+1, res.Score, res.MaxTile, res.Moves, won)
		}
	}

	stats, err := tracker.Statistics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading statistics: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Strategy: %s  Games: %d  Win tile: %d\n", flagSimStrategy, played, cfg.Rules.WinTile)
	printStatistics(stats)
	if err := tracker.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: some games were not recorded: %v\n", err)
	}
}
