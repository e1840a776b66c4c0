// Package config loads planner configuration from an optional YAML file
// with environment overrides. Every operation receives values from here
// explicitly; nothing reads ambient state at solve time.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/aatrey56/fpl-squad-planner/internal/chip"
	"github.com/aatrey56/fpl-squad-planner/internal/model"
	"github.com/aatrey56/fpl-squad-planner/internal/transfer"
)

type Config struct {
	Horizon     int                   `yaml:"horizon"`       // planning horizon in gameweeks
	Budget      int                   `yaml:"budget_tenths"` // squad budget in tenths of a million
	ClubLimit   int                   `yaml:"club_limit"`
	Composition model.Composition     `yaml:"composition"`
	Formation   model.FormationBounds `yaml:"formation"`
	Transfers   transfer.Config       `yaml:"transfers"`
	Chips       chip.Thresholds       `yaml:"chips"`
	Rotation    struct {
		LowShare    float64 `yaml:"low_share"`    // minutes share at or above which risk is LOW
		MediumShare float64 `yaml:"medium_share"` // minutes share at or above which risk is MEDIUM
	} `yaml:"rotation"`
	Data struct {
		RawRoot     string `yaml:"raw_root"`     // JSON snapshot root
		DerivedRoot string `yaml:"derived_root"` // plan report root
		SQLitePath  string `yaml:"sqlite_path"`  // players database, optional
	} `yaml:"data"`
}

// Default mirrors the standard game rules and the stock planning policy.
func Default() Config {
	cfg := Config{
		Horizon:     3,
		Budget:      1000,
		ClubLimit:   3,
		Composition: model.DefaultComposition(),
		Formation:   model.DefaultFormationBounds(),
		Transfers:   transfer.DefaultConfig(),
		Chips:       chip.DefaultThresholds(),
	}
	cfg.Rotation.LowShare = 0.70
	cfg.Rotation.MediumShare = 0.40
	cfg.Data.RawRoot = "data/raw"
	cfg.Data.DerivedRoot = "data/derived"
	return cfg
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("FPL_SQLITE_PATH"); v != "" {
		cfg.Data.SQLitePath = v
	}
	if v := os.Getenv("FPL_RAW_ROOT"); v != "" {
		cfg.Data.RawRoot = v
	}
	if v := os.Getenv("FPL_DERIVED_ROOT"); v != "" {
		cfg.Data.DerivedRoot = v
	}
	if v := os.Getenv("FPL_HORIZON"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			cfg.Horizon = h
		}
	}
	if v := os.Getenv("FPL_BUDGET_TENTHS"); v != "" {
		if b, err := strconv.Atoi(v); err == nil && b > 0 {
			cfg.Budget = b
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the planner cannot honor.
func (c Config) Validate() error {
	if c.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be at least 1", model.ErrInvalidConfiguration)
	}
	if c.Budget < 0 {
		return fmt.Errorf("%w: negative budget", model.ErrInvalidConfiguration)
	}
	if c.ClubLimit < 1 {
		return fmt.Errorf("%w: club limit must be at least 1", model.ErrInvalidConfiguration)
	}
	if c.Composition.Total() != 15 {
		return fmt.Errorf("%w: composition sums to %d, want 15", model.ErrInvalidConfiguration, c.Composition.Total())
	}
	if err := c.Formation.Validate(11); err != nil {
		return err
	}
	if c.Chips.TripleCaptain < 0 || c.Chips.BenchBoost < 0 || c.Chips.Wildcard < 0 || c.Chips.FreeHit < 0 {
		return fmt.Errorf("%w: negative chip threshold", model.ErrInvalidConfiguration)
	}
	if c.Rotation.MediumShare > c.Rotation.LowShare {
		return fmt.Errorf("%w: rotation medium share above low share", model.ErrInvalidConfiguration)
	}
	return nil
}
