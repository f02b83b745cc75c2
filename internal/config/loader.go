package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Validation errors returned by LoadKeyfall and Validate.
var (
	ErrInvalidStageTable = errors.New("invalid stage table")
	ErrInvalidLayout     = errors.New("invalid keyboard layout")
)

const configFile = "keyfall.yaml"

// LoadKeyfall loads keyfall configuration.
// Search order: customPath -> ~/.keyfall/configs/keyfall.yaml -> ./configs/keyfall.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a file only needs the keys it changes.
func LoadKeyfall(customPath string) (KeyfallConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return KeyfallConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := ParseKeyfall(data)
		if err != nil {
			return KeyfallConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := ParseKeyfall(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Use embedded default YAML
	cfg, err := ParseKeyfall(defaultKeyfallYAML)
	if err != nil {
		return DefaultKeyfallConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseKeyfall decodes YAML over the hardcoded defaults and validates the result.
func ParseKeyfall(data []byte) (KeyfallConfig, error) {
	cfg := DefaultKeyfallConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return KeyfallConfig{}, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return KeyfallConfig{}, err
	}
	return cfg, nil
}

// ResolvePath returns the file LoadKeyfall would read, or "" when the embedded
// default is used.
func ResolvePath(customPath string) string {
	if customPath != "" {
		return customPath
	}
	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".keyfall", "configs", filename)
}

// Validate checks the stage table and keyboard layout.
func (c KeyfallConfig) Validate() error {
	if c.Playfield.Width <= 0 || c.Playfield.Height <= 0 {
		return fmt.Errorf("playfield must have positive size, got %vx%v", c.Playfield.Width, c.Playfield.Height)
	}
	if c.Penalty.Steps <= 0 || c.Penalty.StepMs <= 0 {
		return fmt.Errorf("penalty countdown must have positive steps")
	}
	if len(c.Layout.Rows) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	if len(c.Stages) == 0 {
		return fmt.Errorf("%w: no stages", ErrInvalidStageTable)
	}

	prev := 0
	for i, st := range c.Stages {
		if len(st.Pool()) == 0 {
			return fmt.Errorf("%w: stage %d (%s) has no letters", ErrInvalidStageTable, i, st.Name)
		}
		if st.Threshold <= prev {
			return fmt.Errorf("%w: stage %d threshold %d must exceed %d", ErrInvalidStageTable, i, st.Threshold, prev)
		}
		prev = st.Threshold
		for _, r := range st.Pool() {
			if _, _, ok := c.Layout.Position(r); !ok {
				return fmt.Errorf("%w: letter %q of stage %d is not on the keyboard", ErrInvalidLayout, r, i)
			}
		}
	}
	return nil
}

// ApplyKeyfallPreset modifies the config based on a difficulty preset.
func ApplyKeyfallPreset(cfg *KeyfallConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Ship.Lives = 5
		cfg.Speed.BaseLetterSpeed *= 0.8
		cfg.Speed.BaseSpawnMs += 400
	case DifficultyHard:
		cfg.Ship.Lives = 2
		cfg.Speed.BaseLetterSpeed *= 1.25
		cfg.Speed.BaseSpawnMs = max(cfg.Speed.MinSpawnMs, cfg.Speed.BaseSpawnMs-300)
	}
}
