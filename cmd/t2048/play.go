package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/scoring"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagNewGame bool
	flagSlot    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing 2048. An unfinished game is saved on quit and
resumed the next time you play.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  C/Enter          - Keep playing after a win
  R                - Restart
  ?                - Toggle help
  Q/Esc/Ctrl+C     - Save and quit

Examples:
  t2048 play
  t2048 play --new
  t2048 play --preset marathon
  t2048 play --config ./my-rules.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNewGame, "new", false, "Ignore the saved game and start fresh")
	playCmd.Flags().StringVar(&flagSlot, "slot", tui.DefaultSlot, "Save slot name")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger := newLogger("t2048")
	cfg := mustLoadRules()

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open score storage
	var (
		rec      scoring.Recorder = scoring.NewMemoryRecorder()
		sessions tui.SessionStore
	)
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
	} else {
		rec, sessions = store, store
		defer store.Close()
	}

	tracker, err := newTracker(rec, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scores: %v\n", err)
		os.Exit(1)
	}
	engine := newEngine(cfg, tracker, logger)

	msg := ""
	if flagNewGame {
		engine.InitGame()
	} else if tui.StartSession(engine, sessions, flagSlot, logger) {
		msg = "Resumed saved game"
	}

	runErr := tui.Run(engine,
		tui.WithSessionStore(sessions, flagSlot),
		tui.WithModelLogger(logger),
		tui.WithSize(width, height),
		tui.WithMessage(msg),
	)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}

	snap := engine.Snapshot()
	fmt.Printf("Score: %d  Best: %d  Max tile: %d\n", snap.Score, snap.BestScore, engine.Stats().MaxTile)
	if err := tracker.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: some games were not recorded: %v\n", err)
	}
}
