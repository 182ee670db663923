package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadHeist loads the heist tuning.
// Search order: customPath -> ~/.heist/configs/heist.yaml -> ./configs/heist.yaml -> embedded default.
// Files are decoded over the built-in defaults, so a partial file only overrides what it names.
func LoadHeist(customPath string) (HeistConfig, error) {
	cfg := DefaultHeistConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("heist.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultHeistConfig()
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "heist.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultHeistConfig()
	}

	if err := yaml.Unmarshal(defaultHeistYAML, &cfg); err != nil {
		return DefaultHeistConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".heist", "configs", filename)
}

// ApplyHeistPreset modifies the config based on a difficulty preset.
// An empty preset leaves the loaded values alone.
func ApplyHeistPreset(cfg *HeistConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	cfg.Difficulty.Progression = preset != DifficultyFixed
	cfg.Difficulty.DetectMultiply, cfg.Difficulty.DecayMultiply = multipliersForPreset(preset)
}
