package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const rulesFile = "rules.yaml"

// Load loads the rules configuration.
// Search order: customPath -> ~/.t2048/rules.yaml -> ./configs/rules.yaml -> embedded default
//
// Values missing from a file keep their defaults, and the result is validated.
func Load(customPath string) (RulesConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RulesConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return RulesConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(rulesFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", rulesFile)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultRulesYAML)
	if err != nil {
		return DefaultRulesConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes YAML over the hard-coded defaults and validates the result.
func parse(data []byte) (RulesConfig, error) {
	cfg := DefaultRulesConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RulesConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RulesConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes a config as YAML, e.g. for `config show`.
func Marshal(cfg RulesConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", filename)
}
