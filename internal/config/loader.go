package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file. A missing file is not an
// error: the built-in defaults describe the standard ridge benchmark, so the
// tool works with no config at all.
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Fall through to defaults
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Apply defaults
	applyDefaults(&cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Additional input security validation
	if err := cfg.ValidateInputs(); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// Screening defaults: the standard ridge regression baseline over the
	// three benchmark targets, single trial
	if cfg.Screening.Method == "" {
		cfg.Screening.Method = "ridge"
	}
	if len(cfg.Screening.Targets) == 0 {
		cfg.Screening.Targets = []string{"KIT", "PARP1", "PGR"}
	}
	if cfg.Screening.ResultsDir == "" {
		cfg.Screening.ResultsDir = filepath.Join("results", "virtual-screening")
	}
	if cfg.Screening.OnError == "" {
		cfg.Screening.OnError = OnErrorContinue
	}
	// trial_start/trial_end default to 0..0 (single trial) via zero values

	// Predictor defaults
	if cfg.Predictor.Command == "" {
		cfg.Predictor.Command = "python"
	}
	if cfg.Predictor.Script == "" {
		cfg.Predictor.Script = filepath.Join("scripts", "predict_ridge.py")
	}
	if len(cfg.Predictor.Args) == 0 {
		cfg.Predictor.Args = []string{
			"--dataset", "{{.Dataset}}",
			"--save-path", "{{.Output}}",
			"--load-dir", "{{.Model}}",
		}
	}

	// Resource defaults
	if cfg.Resources.TargetsDir == "" {
		cfg.Resources.TargetsDir = filepath.Join("resources", "targets")
	}
}
