package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level hisaabflow.yaml configuration.
type Config struct {
	Identity  IdentityConfig  `yaml:"identity"`
	Matching  MatchingConfig  `yaml:"matching"`
	Overrides OverridesConfig `yaml:"overrides"`
	BankHints []BankHintRule  `yaml:"bank_hints,omitempty"`
}

// IdentityConfig names the account holder whose statements are being matched.
type IdentityConfig struct {
	Name string `yaml:"name"`
}

// MatchingConfig controls the matching engine tolerances.
type MatchingConfig struct {
	// DateToleranceHours bounds the date gap between the two legs of a pair.
	DateToleranceHours int `yaml:"date_tolerance_hours"`
	// NameDateToleranceHours is the relaxed window for name-based matching.
	// Zero means 3x the base tolerance.
	NameDateToleranceHours int `yaml:"name_date_tolerance_hours,omitempty"`
}

// OverridesConfig controls what the override emitter writes.
type OverridesConfig struct {
	// Category assigned to both legs of an accepted pair.
	Category string `yaml:"category"`
}

// BankHintRule maps a filename/description substring to a bank hint.
type BankHintRule struct {
	Match string `yaml:"match"`
	Bank  string `yaml:"bank"`
}

// Load reads a hisaabflow.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports configuration errors. These are fatal for a run, unlike
// per-row data problems which the engine recovers from.
func (c *Config) Validate() error {
	if c.Identity.Name == "" {
		return errors.New("identity.name is required")
	}
	if c.Matching.DateToleranceHours <= 0 {
		return fmt.Errorf("matching.date_tolerance_hours must be positive, got %d", c.Matching.DateToleranceHours)
	}
	if c.Matching.NameDateToleranceHours < 0 {
		return fmt.Errorf("matching.name_date_tolerance_hours must not be negative, got %d", c.Matching.NameDateToleranceHours)
	}
	if c.Overrides.Category == "" {
		return errors.New("overrides.category is required")
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(identityName string) *Config {
	return &Config{
		Identity: IdentityConfig{
			Name: identityName,
		},
		Matching: MatchingConfig{
			DateToleranceHours: 24,
		},
		Overrides: OverridesConfig{
			Category: "Balance Correction",
		},
	}
}
