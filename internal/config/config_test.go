package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load with missing file should fall back to defaults: %v", err)
	}

	if cfg.Screening.Method != "ridge" {
		t.Errorf("Default method: got %q, want %q", cfg.Screening.Method, "ridge")
	}
	if want := []string{"KIT", "PARP1", "PGR"}; !reflect.DeepEqual(cfg.Screening.Targets, want) {
		t.Errorf("Default targets: got %v, want %v", cfg.Screening.Targets, want)
	}
	if cfg.Screening.TrialStart != 0 || cfg.Screening.TrialEnd != 0 {
		t.Errorf("Default trial range: got %d..%d, want 0..0", cfg.Screening.TrialStart, cfg.Screening.TrialEnd)
	}
	if cfg.Screening.OnError != OnErrorContinue {
		t.Errorf("Default on_error: got %q, want %q", cfg.Screening.OnError, OnErrorContinue)
	}
	if cfg.Screening.PairCount() != 3 {
		t.Errorf("Default pair count: got %d, want 3", cfg.Screening.PairCount())
	}
	if cfg.Predictor.Command != "python" {
		t.Errorf("Default predictor command: got %q, want %q", cfg.Predictor.Command, "python")
	}
	if len(cfg.Predictor.Args) == 0 {
		t.Error("Default predictor args should not be empty")
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
[screening]
method = "lasso"
targets = ["F2", "ESR2"]
trial_start = 0
trial_end = 4
on_error = "abort"

[predictor]
command = "python3"
script = "predict.py"
timeout_seconds = 600
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Screening.Method != "lasso" {
		t.Errorf("method: got %q, want %q", cfg.Screening.Method, "lasso")
	}
	if cfg.Screening.TrialCount() != 5 {
		t.Errorf("trial count: got %d, want 5", cfg.Screening.TrialCount())
	}
	if !cfg.Screening.AbortOnError() {
		t.Error("on_error=abort should set AbortOnError")
	}
	if cfg.Predictor.TimeoutSeconds != 600 {
		t.Errorf("timeout: got %d, want 600", cfg.Predictor.TimeoutSeconds)
	}
	// Defaults still fill the gaps
	if len(cfg.Predictor.Args) == 0 {
		t.Error("Default args should apply when the file omits them")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected an error for malformed TOML")
	}
}

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative trial start",
			mutate:  func(c *Config) { c.Screening.TrialStart = -1 },
			wantErr: true,
		},
		{
			name: "inverted trial range",
			mutate: func(c *Config) {
				c.Screening.TrialStart = 3
				c.Screening.TrialEnd = 1
			},
			wantErr: true,
		},
		{
			name:    "unknown on_error policy",
			mutate:  func(c *Config) { c.Screening.OnError = "retry" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Predictor.TimeoutSeconds = -5 },
			wantErr: true,
		},
		{
			name:    "negative launch rate",
			mutate:  func(c *Config) { c.Predictor.LaunchesPerMinute = -1 },
			wantErr: true,
		},
		{
			name:    "empty predictor command",
			mutate:  func(c *Config) { c.Predictor.Command = "" },
			wantErr: true,
		},
		{
			name:    "empty args",
			mutate:  func(c *Config) { c.Predictor.Args = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected a validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}
