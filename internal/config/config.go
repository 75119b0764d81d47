package config

import (
	"fmt"
	"strings"
)

// Config represents the complete application configuration
type Config struct {
	Screening ScreeningConfig `toml:"screening"`
	Predictor PredictorConfig `toml:"predictor"`
	Resources ResourcesConfig `toml:"resources"`
}

// ScreeningConfig holds the enumeration settings: which method, which
// targets, and which trial indices make up the run
type ScreeningConfig struct {
	Method      string   `toml:"method"`
	Targets     []string `toml:"targets"`
	TrialStart  int      `toml:"trial_start"`
	TrialEnd    int      `toml:"trial_end"` // inclusive
	ResultsDir  string   `toml:"results_dir"`
	DatasetPath string   `toml:"dataset_path"` // usually supplied via --dataset or DATASET_PATH
	OnError     string   `toml:"on_error"`     // continue or abort
}

// PredictorConfig describes how to launch the external predictor process
type PredictorConfig struct {
	Command           string   `toml:"command"`
	Script            string   `toml:"script"`
	Args              []string `toml:"args"`        // argv templates, rendered per invocation
	WorkingDir        string   `toml:"working_dir"` // defaults to the script's directory
	SearchPath        string   `toml:"search_path"` // exported as PYTHONPATH for the predictor
	TimeoutSeconds    int      `toml:"timeout_seconds"`     // 0 = no per-invocation deadline
	LaunchesPerMinute int      `toml:"launches_per_minute"` // 0 = unthrottled
}

// ResourcesConfig points at static resource locations
type ResourcesConfig struct {
	TargetsDir string `toml:"targets_dir"`
}

// Error handling policies for predictor failures
const (
	OnErrorContinue = "continue"
	OnErrorAbort    = "abort"
)

const (
	// MaxTargets is the maximum allowed number of targets
	MaxTargets = 256
	// MaxTrialsPerTarget is the maximum allowed trial range size
	MaxTrialsPerTarget = 1024
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Screening.Method == "" {
		return fmt.Errorf("screening.method is required")
	}
	if len(c.Screening.Targets) == 0 {
		return fmt.Errorf("screening.targets must list at least one target")
	}
	if len(c.Screening.Targets) > MaxTargets {
		return fmt.Errorf("screening.targets must not exceed %d entries (got %d)", MaxTargets, len(c.Screening.Targets))
	}
	if c.Screening.TrialStart < 0 {
		return fmt.Errorf("screening.trial_start must not be negative (got %d)", c.Screening.TrialStart)
	}
	if c.Screening.TrialEnd < c.Screening.TrialStart {
		return fmt.Errorf("screening.trial_end (%d) must not be below trial_start (%d)", c.Screening.TrialEnd, c.Screening.TrialStart)
	}
	if n := c.Screening.TrialEnd - c.Screening.TrialStart + 1; n > MaxTrialsPerTarget {
		return fmt.Errorf("trial range must not exceed %d trials (got %d)", MaxTrialsPerTarget, n)
	}
	if c.Screening.ResultsDir == "" {
		return fmt.Errorf("screening.results_dir is required")
	}
	switch c.Screening.OnError {
	case OnErrorContinue, OnErrorAbort:
	default:
		return fmt.Errorf("screening.on_error must be %q or %q (got %q)", OnErrorContinue, OnErrorAbort, c.Screening.OnError)
	}

	if c.Predictor.Command == "" {
		return fmt.Errorf("predictor.command is required")
	}
	if c.Predictor.Script == "" {
		return fmt.Errorf("predictor.script is required")
	}
	if len(c.Predictor.Args) == 0 {
		return fmt.Errorf("predictor.args must list at least one argument template")
	}
	if c.Predictor.TimeoutSeconds < 0 {
		return fmt.Errorf("predictor.timeout_seconds must not be negative (got %d)", c.Predictor.TimeoutSeconds)
	}
	if c.Predictor.LaunchesPerMinute < 0 {
		return fmt.Errorf("predictor.launches_per_minute must not be negative (got %d)", c.Predictor.LaunchesPerMinute)
	}

	return nil
}

// TrialCount returns the number of trials per target
func (c *ScreeningConfig) TrialCount() int {
	return c.TrialEnd - c.TrialStart + 1
}

// PairCount returns the total number of (target, trial) pairs enumerated
func (c *ScreeningConfig) PairCount() int {
	return len(c.Targets) * c.TrialCount()
}

// AbortOnError reports whether a predictor failure should stop the run
func (c *ScreeningConfig) AbortOnError() bool {
	return strings.EqualFold(c.OnError, OnErrorAbort)
}
