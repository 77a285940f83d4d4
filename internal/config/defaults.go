package config

import (
	_ "embed"
)

//go:embed defaults/rules.yaml
var defaultRulesYAML []byte

// DefaultRulesConfig returns the classic 2048 rules.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		Rules: GameRules{
			WinTile:      2048,
			InitialTiles: 2,
			Spawn: SpawnConfig{
				FourProbability: 0.1,
			},
			MaxSaneTile: 131072, // 2^17
		},
		Scoring: ScoringConfig{
			HistorySize: 100,
		},
	}
}

// DefaultYAML returns the embedded default rules file.
func DefaultYAML() []byte {
	return defaultRulesYAML
}
