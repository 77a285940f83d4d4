// Package config provides YAML-based rule configuration and named presets
// for the 2048 engine.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for rules the engine cannot run.
var ErrInvalidConfig = errors.New("invalid config")

// RulesConfig contains all tunable parameters of a game.
type RulesConfig struct {
	Rules   GameRules     `yaml:"rules"`
	Scoring ScoringConfig `yaml:"scoring"`
}

// GameRules defines the win condition and tile spawning.
type GameRules struct {
	WinTile      int         `yaml:"win_tile"`
	InitialTiles int         `yaml:"initial_tiles"`
	Spawn        SpawnConfig `yaml:"spawn"`
	MaxSaneTile  int         `yaml:"max_sane_tile"` // Larger tiles are flagged by validation
}

// SpawnConfig defines random tile spawning.
type SpawnConfig struct {
	FourProbability float64 `yaml:"four_probability"` // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// ScoringConfig defines score history behaviour.
type ScoringConfig struct {
	HistorySize int `yaml:"history_size"` // Number of finished games kept
}

// Validate checks that the rules describe a playable game.
func (c RulesConfig) Validate() error {
	r := c.Rules
	if r.WinTile < 4 || r.WinTile&(r.WinTile-1) != 0 {
		return fmt.Errorf("config: win_tile %d must be a power of two >= 4: %w", r.WinTile, ErrInvalidConfig)
	}
	if r.InitialTiles < 1 || r.InitialTiles > 16 {
		return fmt.Errorf("config: initial_tiles %d must be in 1..16: %w", r.InitialTiles, ErrInvalidConfig)
	}
	if r.Spawn.FourProbability < 0 || r.Spawn.FourProbability > 1 {
		return fmt.Errorf("config: four_probability %v must be in [0,1]: %w", r.Spawn.FourProbability, ErrInvalidConfig)
	}
	if r.MaxSaneTile < r.WinTile {
		return fmt.Errorf("config: max_sane_tile %d below win_tile %d: %w", r.MaxSaneTile, r.WinTile, ErrInvalidConfig)
	}
	if c.Scoring.HistorySize < 0 {
		return fmt.Errorf("config: history_size %d is negative: %w", c.Scoring.HistorySize, ErrInvalidConfig)
	}
	return nil
}
