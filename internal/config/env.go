package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds INKBOUND_* overrides. They beat the file and lose to flags.
type EnvConfig struct {
	Seed    *int64   `env:"INKBOUND_SEED"`
	Preset  *string  `env:"INKBOUND_PRESET"`
	Zone    *int     `env:"INKBOUND_ZONE"`
	Skills  []string `env:"INKBOUND_SKILLS" envSeparator:","`
	LogFile *string  `env:"INKBOUND_LOG_FILE"`
}

// LoadEnv parses overrides from the environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Overlay writes the set overrides into fc.
func (e EnvConfig) Overlay(fc *FileConfig) {
	if e.Seed != nil {
		fc.Run.Seed = e.Seed
	}
	if e.Preset != nil {
		fc.Run.Preset = e.Preset
	}
	if e.Zone != nil {
		fc.Run.Zone = e.Zone
	}
	if len(e.Skills) > 0 {
		fc.Player.Skills = e.Skills
	}
	if e.LogFile != nil {
		fc.LogFile = e.LogFile
	}
}
