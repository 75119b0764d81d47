package results

import (
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFilename is the advisory run manifest written after each pass
const ManifestFilename = "run-manifest.json"

// RunLogFilename is the JSON log file for the runner itself
const RunLogFilename = "screenrun.log"

// PredictorLogFilename holds the combined output of one predictor invocation
const PredictorLogFilename = "predictor.log"

// Layout derives the canonical on-disk locations for one screening method.
// Every path is a pure function of (results dir, method, target, trial,
// dataset basename): identical inputs always yield identical paths.
type Layout struct {
	resultsDir string
	method     string
}

// NewLayout creates a layout rooted at resultsDir for the given method
func NewLayout(resultsDir, method string) Layout {
	return Layout{resultsDir: resultsDir, method: method}
}

// Method returns the method name the layout was built for
func (l Layout) Method() string {
	return l.method
}

// MethodDir returns <results_dir>/<method>
func (l Layout) MethodDir() string {
	return filepath.Join(l.resultsDir, l.method)
}

// ResultDir returns <results_dir>/<method>/<target>
func (l Layout) ResultDir(target string) string {
	return filepath.Join(l.MethodDir(), target)
}

// OutputDir returns <result dir>/predictions-trial-<trial>
func (l Layout) OutputDir(target string, trial int) string {
	return filepath.Join(l.ResultDir(target), fmt.Sprintf("predictions-trial-%d", trial))
}

// OutputFile returns <output dir>/<basename(dataset path)>. Its existence is
// the sole persisted completion marker for the (target, trial) pair.
func (l Layout) OutputFile(target string, trial int, datasetPath string) string {
	return filepath.Join(l.OutputDir(target, trial), filepath.Base(datasetPath))
}

// ModelDir returns <result dir>/model-<trial>, the pre-trained model load
// path handed to the predictor
func (l Layout) ModelDir(target string, trial int) string {
	return filepath.Join(l.ResultDir(target), fmt.Sprintf("model-%d", trial))
}

// PredictorLogPath returns the log file capturing one invocation's output
func (l Layout) PredictorLogPath(target string, trial int) string {
	return filepath.Join(l.OutputDir(target, trial), PredictorLogFilename)
}

// ManifestPath returns <results_dir>/<method>/run-manifest.json
func (l Layout) ManifestPath() string {
	return filepath.Join(l.MethodDir(), ManifestFilename)
}

// RunLogPath returns <results_dir>/<method>/screenrun.log
func (l Layout) RunLogPath() string {
	return filepath.Join(l.MethodDir(), RunLogFilename)
}

// EnsureResultDir creates the per-target result directory, recursively and
// idempotently
func (l Layout) EnsureResultDir(target string) error {
	if err := os.MkdirAll(l.ResultDir(target), 0755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}
	return nil
}

// EnsureOutputDir creates the per-trial output directory. Called only when an
// invocation is about to run.
func (l Layout) EnsureOutputDir(target string, trial int) error {
	if err := os.MkdirAll(l.OutputDir(target, trial), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// OutputExists reports whether the completion marker for a pair is on disk
func (l Layout) OutputExists(target string, trial int, datasetPath string) bool {
	_, err := os.Stat(l.OutputFile(target, trial, datasetPath))
	return err == nil
}
