package t2048

import "github.com/vovakirdan/tui-2048/internal/config"

// Rules are the tunable parameters of a single game.
type Rules struct {
	WinTile           int     // Tile value that triggers the win edge
	InitialTiles      int     // Tiles placed by InitGame
	Spawn4Probability float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
	MaxSaneTile       int     // Larger tiles are reported by Validate
}

// DefaultRules returns the classic rules: 2048 wins, two starting tiles,
// 90% twos and 10% fours.
func DefaultRules() Rules {
	return RulesFromConfig(config.DefaultRulesConfig())
}

// RulesFromConfig extracts engine rules from a loaded configuration.
func RulesFromConfig(cfg config.RulesConfig) Rules {
	return Rules{
		WinTile:           cfg.Rules.WinTile,
		InitialTiles:      cfg.Rules.InitialTiles,
		Spawn4Probability: cfg.Rules.Spawn.FourProbability,
		MaxSaneTile:       cfg.Rules.MaxSaneTile,
	}
}
