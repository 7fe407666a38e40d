// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sartorproj/gocompare/carkeet"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analysis  AnalysisConfig  `toml:"analysis"`
	Estimator EstimatorConfig `toml:"estimator"`
	CSV       CSVConfig       `toml:"csv"`
	Log       LogConfig       `toml:"log"`
}

// AnalysisConfig maps the Bland-Altman analysis settings.
type AnalysisConfig struct {
	LimitOfAgreement   *float64 `toml:"loa"`
	ConfidenceInterval *float64 `toml:"ci"`
	CIMethod           *string  `toml:"ci-method"`
	Detrend            *string  `toml:"detrend"`
	Format             *string  `toml:"format"`
	Sequential         *bool    `toml:"sequential"`
}

// EstimatorConfig maps the exact paired coefficient search settings.
type EstimatorConfig struct {
	MaxIterations *int     `toml:"max-iterations"`
	Tolerance     *float64 `toml:"tolerance"`
}

// CSVConfig maps input file settings.
type CSVConfig struct {
	First     *string `toml:"first"`
	Second    *string `toml:"second"`
	Delimiter *string `toml:"delimiter"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Environment *string `toml:"environment"`
}

// Carkeet returns the estimator configuration with unset keys at their
// defaults.
func (c EstimatorConfig) Carkeet() *carkeet.Config {
	cfg := carkeet.DefaultConfig()
	if c.MaxIterations != nil {
		cfg.MaxIterations = *c.MaxIterations
	}
	if c.Tolerance != nil {
		cfg.Tolerance = *c.Tolerance
	}
	return cfg
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template returns a commented configuration file listing every key with
// its default.
func Template() string {
	est := carkeet.DefaultConfig()
	return fmt.Sprintf(`# gocompare configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# loa = 1.96                  # Limit of agreement multiplier
# ci = 95                     # Confidence interval percent, 0 disables
# ci-method = "exact paired"  # "exact paired" or "approximate"
# detrend = "none"            # "none", "linear" or "odr"
# format = "text"             # "text" or "json"
# sequential = false          # Solve exact coefficients one at a time

[estimator]
# max-iterations = %d
# tolerance = %g

[csv]
# first = "first"             # Column of the first method
# second = "second"           # Column of the second method
# delimiter = ","

[log]
# environment = "silent"      # "development", "production" or "silent"
`, est.MaxIterations, est.Tolerance)
}
