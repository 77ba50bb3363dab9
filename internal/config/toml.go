// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/inkbound/internal/combat"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	LogFile *string      `toml:"log-file"`
	Player  PlayerConfig `toml:"player"`
	Run     RunConfig    `toml:"run"`
	Words   WordsConfig  `toml:"words"`
	Combat  CombatConfig `toml:"combat"`
	Rhythm  RhythmConfig `toml:"rhythm"`
	Combo   ComboConfig  `toml:"combo"`
}

// PlayerConfig maps the starting character.
type PlayerConfig struct {
	MaxHP   *int     `toml:"max-hp"`
	Attack  *int     `toml:"attack"`
	Defense *int     `toml:"defense"`
	Skills  []string `toml:"skills"`
}

// RunConfig maps run selection settings.
type RunConfig struct {
	Seed       *int64   `toml:"seed"`
	Zone       *int     `toml:"zone"`
	Preset     *string  `toml:"preset"`
	Challenges []string `toml:"challenges"`
	RestHeal   *float64 `toml:"rest-heal"`
	Encounters *int     `toml:"encounters"`
}

// WordsConfig maps word generation settings.
type WordsConfig struct {
	CapsPct    *float64 `toml:"caps"`
	PunctPct   *float64 `toml:"punct"`
	PunctSet   *string  `toml:"punct-set"`
	ExtraFile  *string  `toml:"extra-file"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	WeakWindow *int     `toml:"weak-window"`
}

// CombatConfig maps encounter tuning.
type CombatConfig struct {
	TimePerChar      *time.Duration `toml:"time-per-char"`
	MinWordTime      *time.Duration `toml:"min-word-time"`
	MaxWordTime      *time.Duration `toml:"max-word-time"`
	FleeChance       *float64       `toml:"flee-chance"`
	ReductionCeiling *float64       `toml:"reduction-ceiling"`
}

// RhythmConfig maps cadence tuning.
type RhythmConfig struct {
	Window            *int           `toml:"window"`
	UpgradeThreshold  *float64       `toml:"upgrade-threshold"`
	UpgradeStreak     *int           `toml:"upgrade-streak"`
	OutlierTolerance  *float64       `toml:"outlier-tolerance"`
	BaseDamage        *float64       `toml:"base-damage"`
	ReferenceInterval *time.Duration `toml:"reference-interval"`
	MaxSpeedFactor    *float64       `toml:"max-speed-factor"`
	BonusWeight       *float64       `toml:"bonus-weight"`
	BuildingCrit      *float64       `toml:"building-crit"`
	FlowingCrit       *float64       `toml:"flowing-crit"`
	TranscendentCrit  *float64       `toml:"transcendent-crit"`
}

// ComboConfig maps combo tuning.
type ComboConfig struct {
	PerComboBonus *float64 `toml:"per-combo-bonus"`
	MaxMultiplier *float64 `toml:"max-multiplier"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ApplyTuning overlays the tuning sections onto cfg.
func (fc FileConfig) ApplyTuning(cfg *combat.Config) {
	c := fc.Combat
	set(&cfg.TimePerChar, c.TimePerChar)
	set(&cfg.MinWordTime, c.MinWordTime)
	set(&cfg.MaxWordTime, c.MaxWordTime)
	set(&cfg.FleeChance, c.FleeChance)
	set(&cfg.ReductionCeiling, c.ReductionCeiling)

	r := fc.Rhythm
	set(&cfg.Rhythm.Window, r.Window)
	set(&cfg.Rhythm.UpgradeThreshold, r.UpgradeThreshold)
	set(&cfg.Rhythm.UpgradeStreak, r.UpgradeStreak)
	set(&cfg.Rhythm.OutlierTolerance, r.OutlierTolerance)
	set(&cfg.Rhythm.BaseDamage, r.BaseDamage)
	set(&cfg.Rhythm.ReferenceInterval, r.ReferenceInterval)
	set(&cfg.Rhythm.MaxSpeedFactor, r.MaxSpeedFactor)
	set(&cfg.Rhythm.BonusWeight, r.BonusWeight)
	set(&cfg.Rhythm.BuildingCrit, r.BuildingCrit)
	set(&cfg.Rhythm.FlowingCrit, r.FlowingCrit)
	set(&cfg.Rhythm.TranscendentCrit, r.TranscendentCrit)

	set(&cfg.Combo.PerComboBonus, fc.Combo.PerComboBonus)
	set(&cfg.Combo.MaxMultiplier, fc.Combo.MaxMultiplier)
}

// ValidateTuning rejects tuning that would break combat math.
func ValidateTuning(cfg combat.Config) error {
	switch {
	case cfg.TimePerChar <= 0:
		return fmt.Errorf("combat.time-per-char must be positive")
	case cfg.MaxWordTime > 0 && cfg.MaxWordTime < cfg.MinWordTime:
		return fmt.Errorf("combat.max-word-time must not be below min-word-time")
	case cfg.FleeChance < 0 || cfg.FleeChance > 1:
		return fmt.Errorf("combat.flee-chance must be between 0 and 1")
	case cfg.ReductionCeiling < 0 || cfg.ReductionCeiling > 1:
		return fmt.Errorf("combat.reduction-ceiling must be between 0 and 1")
	case cfg.Rhythm.Window < 2:
		return fmt.Errorf("rhythm.window must be at least 2")
	case cfg.Rhythm.UpgradeStreak < 1:
		return fmt.Errorf("rhythm.upgrade-streak must be at least 1")
	case cfg.Rhythm.ReferenceInterval <= 0:
		return fmt.Errorf("rhythm.reference-interval must be positive")
	case cfg.Combo.MaxMultiplier < 1:
		return fmt.Errorf("combo.max-multiplier must be at least 1")
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
