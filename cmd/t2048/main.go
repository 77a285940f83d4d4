// t2048 plays 2048 in the terminal, locally or over SSH.
//
// Usage:
//
//	t2048 play               - Play (resumes the saved game if there is one)
//	t2048 serve              - Start SSH server for remote play
//	t2048 simulate           - Run headless games with a bot
//	t2048 scores             - Browse recorded games
//	t2048 stats              - Show aggregate statistics
//	t2048 config show        - Print the effective rules
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible games
//	--db <path>          - Set database path (default: ~/.t2048/scores.db)
//	--config <path>      - Load rules from a YAML file
//	--preset <id>        - Apply a rules preset (classic, quick, marathon, hard)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/scoring"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the sliding tile game 2048 for the terminal.

Available commands:
  play      - Play a game
  serve     - Start SSH server for remote play
  simulate  - Run headless games with a bot
  scores    - Browse, export and import recorded games
  stats     - Show aggregate statistics
  config    - Inspect rules and presets

Examples:
  t2048 play
  t2048 play --preset quick
  t2048 serve --ssh :2222
  t2048 simulate --games 100 --strategy greedy --seed 7
  t2048 scores export games.json`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.t2048/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Rules preset: "+fmt.Sprint(config.PresetIDs()))
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns a stderr logger at the --log-level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadRules loads --config and applies --preset.
func loadRules() (config.RulesConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.RulesConfig{}, err
	}
	if err := config.ApplyPreset(&cfg, flagPreset); err != nil {
		return config.RulesConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.RulesConfig{}, err
	}
	return cfg, nil
}

// newTracker creates a tracker over rec with the configured history size.
func newTracker(rec scoring.Recorder, cfg config.RulesConfig, logger *log.Logger) (*scoring.Tracker, error) {
	return scoring.NewTracker(rec,
		scoring.WithHistorySize(cfg.Scoring.HistorySize),
		scoring.WithLogger(logger),
	)
}

// newEngine creates an engine with the configured rules and --seed.
func newEngine(cfg config.RulesConfig, keeper t2048.ScoreKeeper, logger *log.Logger) *t2048.Engine {
	opts := []t2048.Option{
		t2048.WithRules(t2048.RulesFromConfig(cfg)),
		t2048.WithScoreKeeper(keeper),
		t2048.WithLogger(logger),
	}
	if flagSeed != 0 {
		opts = append(opts, t2048.WithSeed(flagSeed))
	}
	return t2048.New(opts...)
}

// mustOpenStore opens the scores database or exits.
func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// mustLoadRules loads the rules or exits.
func mustLoadRules() config.RulesConfig {
	cfg, err := loadRules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rules: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
