package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect rules and presets",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rules as YAML",
	Long: `Print the rules after --config and --preset are applied.

Search order without --config:
  ~/.t2048/rules.yaml -> ./configs/rules.yaml -> built-in defaults

Examples:
  t2048 config show
  t2048 config show --preset hard > ~/.t2048/rules.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfigShow,
}

var configPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List rules presets",
	Args:  cobra.NoArgs,
	Run:   runConfigPresets,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPresetsCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) {
	cfg := mustLoadRules()
	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding config: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

func runConfigPresets(_ *cobra.Command, _ []string) {
	fmt.Printf("  %-10s  %-16s  %-8s  %s\n", "ID", "Name", "Win", "4-spawn")
	fmt.Printf("  %-10s  %-16s  %-8s  %s\n", "--", "----", "---", "-------")
	for _, p := range config.Presets {
		fmt.Printf("  %-10s  %-16s  %-8d  %.0f%%\n", p.ID, p.Name, p.WinTile, p.Spawn4*100)
	}
}
