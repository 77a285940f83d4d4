package config

import (
	"fmt"
	"sort"
)

// Preset is a named rule variant.
type Preset struct {
	ID      string
	Name    string
	WinTile int     // Tile that counts as a win
	Spawn4  float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// Presets lists the built-in rule variants.
// Targets are realistic for a 4x4 grid (8192 is very hard but achievable).
var Presets = []Preset{
	{ID: "classic", Name: "Classic 2048", WinTile: 2048, Spawn4: 0.10},
	{ID: "quick", Name: "Quick Game", WinTile: 512, Spawn4: 0.10},
	{ID: "marathon", Name: "Marathon", WinTile: 8192, Spawn4: 0.10},
	{ID: "hard", Name: "Hard Spawns", WinTile: 2048, Spawn4: 0.25},
}

// GetPreset returns the preset with the given ID, or nil.
func GetPreset(id string) *Preset {
	for i := range Presets {
		if Presets[i].ID == id {
			return &Presets[i]
		}
	}
	return nil
}

// PresetIDs returns the IDs of all presets, sorted.
func PresetIDs() []string {
	ids := make([]string, len(Presets))
	for i, p := range Presets {
		ids[i] = p.ID
	}
	sort.Strings(ids)
	return ids
}

// ApplyPreset overrides win tile and spawn probability from a named preset.
// An empty ID leaves the config unchanged.
func ApplyPreset(cfg *RulesConfig, id string) error {
	if id == "" {
		return nil
	}
	p := GetPreset(id)
	if p == nil {
		return fmt.Errorf("config: unknown preset %q (available: %v): %w", id, PresetIDs(), ErrInvalidConfig)
	}

	cfg.Rules.WinTile = p.WinTile
	cfg.Rules.Spawn.FourProbability = p.Spawn4
	if cfg.Rules.MaxSaneTile < p.WinTile {
		cfg.Rules.MaxSaneTile = p.WinTile
	}
	return nil
}
