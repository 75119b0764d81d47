// Package runner sequences predictor invocations across the configured
// (target, trial) pairs, skipping work whose output file already exists.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"github.com/mgarton/screenrun/internal/config"
	"github.com/mgarton/screenrun/internal/metrics"
	"github.com/mgarton/screenrun/internal/predictor"
	"github.com/mgarton/screenrun/internal/results"
	"github.com/mgarton/screenrun/internal/util"
	"github.com/mgarton/screenrun/pkg/models"
)

// ErrDatasetPathMissing is returned when no dataset path was supplied via
// flag, environment, or config
var ErrDatasetPathMissing = errors.New("dataset path is required (set --dataset, DATASET_PATH, or screening.dataset_path)")

// NoFilter disables experiment-index filtering
const NoFilter = -1

// Options are the per-run inputs resolved by the CLI layer
type Options struct {
	// DatasetPath is required; empty fails fast before any directory is created
	DatasetPath string
	// ExperimentIndex selects a single pair by enumeration position;
	// NoFilter runs every pair
	ExperimentIndex int
	// ShowProgress renders a progress bar over the pair list
	ShowProgress bool
}

// Runner walks the Cartesian product of targets and trials, strictly
// sequentially: each predictor invocation blocks until the process exits
// before the next pair is considered.
type Runner struct {
	cfg       *config.Config
	layout    results.Layout
	invoker   *predictor.Invoker
	logger    *slog.Logger
	collector *metrics.Collector
	limiter   *rate.Limiter // nil when launches are unthrottled
	stats     models.RunStats
}

// New creates a runner from the loaded configuration
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	r := &Runner{
		cfg:       cfg,
		layout:    results.NewLayout(cfg.Screening.ResultsDir, cfg.Screening.Method),
		invoker:   predictor.New(cfg.Predictor, logger),
		logger:    logger,
		collector: metrics.NewCollector(logger),
	}

	if lpm := cfg.Predictor.LaunchesPerMinute; lpm > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(float64(lpm)/60.0), 1)
	}

	return r
}

// Layout exposes the path derivation the runner was built with
func (r *Runner) Layout() results.Layout {
	return r.layout
}

// GetStats returns the statistics of the last run
func (r *Runner) GetStats() models.RunStats {
	return r.stats
}

// Run executes one enumeration pass and writes the advisory manifest. The
// returned manifest is non-nil whenever enumeration started, including when
// an abort policy cut the pass short.
func (r *Runner) Run(ctx context.Context, opts Options) (*models.Manifest, error) {
	if opts.DatasetPath == "" {
		return nil, ErrDatasetPathMissing
	}

	sc := r.cfg.Screening
	pairs := Enumerate(sc.Targets, sc.TrialStart, sc.TrialEnd)

	r.stats = models.RunStats{
		StartTime:  time.Now(),
		TotalPairs: len(pairs),
	}
	r.collector.SetEnumeratedPairs(len(pairs))

	manifest := &models.Manifest{
		RunID:       uuid.New().String(),
		StartedAt:   r.stats.StartTime,
		Method:      sc.Method,
		DatasetPath: opts.DatasetPath,
		ConfigHash:  results.ConfigHash(sc.Method, sc.Targets, sc.TrialStart, sc.TrialEnd),
	}

	r.logger.Info("Starting screening run",
		"method", sc.Method,
		"targets", sc.Targets,
		"trials", sc.TrialCount(),
		"pairs", len(pairs),
		"dataset", opts.DatasetPath,
		"experiment_index", opts.ExperimentIndex)

	var bar *progressbar.ProgressBar
	if opts.ShowProgress {
		bar = progressbar.Default(int64(len(pairs)), "Screening")
	}

	createdDirs := make(map[string]bool, len(sc.Targets))
	var abortErr error

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			abortErr = err
			break
		}

		// The result directory is created once per target, before any of its
		// trials are examined
		if !createdDirs[pair.Target] {
			if err := r.layout.EnsureResultDir(pair.Target); err != nil {
				abortErr = err
				break
			}
			createdDirs[pair.Target] = true
		}

		record := r.processPair(ctx, pair, opts)
		manifest.Pairs = append(manifest.Pairs, record)
		r.recordOutcome(record)

		if bar != nil {
			_ = bar.Add(1)
		}

		if record.Outcome == models.OutcomeFailed && sc.AbortOnError() {
			abortErr = fmt.Errorf("predictor failed for target %s trial %d: %s",
				pair.Target, pair.Trial, record.Error)
			break
		}
	}

	r.finalize(manifest)

	if abortErr != nil {
		return manifest, abortErr
	}
	return manifest, nil
}

// processPair handles a single (target, trial) pair: skip if the output file
// exists, skip silently if deselected by the filter, otherwise invoke the
// predictor.
func (r *Runner) processPair(ctx context.Context, pair models.Pair, opts Options) models.PairRecord {
	outputFile := r.layout.OutputFile(pair.Target, pair.Trial, opts.DatasetPath)
	record := models.PairRecord{
		Index:      pair.Index,
		Target:     pair.Target,
		Trial:      pair.Trial,
		OutputFile: outputFile,
	}

	if r.layout.OutputExists(pair.Target, pair.Trial, opts.DatasetPath) {
		r.logger.Info("Output already exists, skipping",
			"target", pair.Target,
			"trial", pair.Trial,
			"output", outputFile)
		record.Outcome = models.OutcomeSkippedExists
		return record
	}

	if opts.ExperimentIndex != NoFilter && opts.ExperimentIndex != pair.Index {
		// Deselected by the index filter: no message, the counter alone advances
		record.Outcome = models.OutcomeSkippedFilter
		return record
	}

	r.logger.Info("Running predictor",
		"target", pair.Target,
		"trial", pair.Trial,
		"experiment_index", pair.Index,
		"output", outputFile)

	modelDir := r.layout.ModelDir(pair.Target, pair.Trial)
	if _, err := os.Stat(modelDir); os.IsNotExist(err) {
		r.logger.Warn("Model directory missing, predictor will likely fail",
			"target", pair.Target,
			"trial", pair.Trial,
			"model_dir", modelDir)
	}

	if err := r.layout.EnsureOutputDir(pair.Target, pair.Trial); err != nil {
		record.Outcome = models.OutcomeFailed
		record.Error = err.Error()
		return record
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			record.Outcome = models.OutcomeFailed
			record.Error = err.Error()
			return record
		}
	}

	result, err := r.invoker.Run(ctx, predictor.Invocation{
		Dataset: opts.DatasetPath,
		Output:  outputFile,
		Model:   modelDir,
		Target:  pair.Target,
		Trial:   pair.Trial,
		Method:  r.cfg.Screening.Method,
	}, r.layout.PredictorLogPath(pair.Target, pair.Trial))

	record.DurationMS = result.Duration.Milliseconds()
	record.ExitCode = result.ExitCode

	switch {
	case err != nil:
		record.Outcome = models.OutcomeFailed
		record.Error = err.Error()
		r.logger.Error("Predictor invocation failed",
			"target", pair.Target,
			"trial", pair.Trial,
			"error", err)
	case result.TimedOut:
		record.Outcome = models.OutcomeFailed
		record.Error = fmt.Sprintf("predictor timed out after %ds", r.cfg.Predictor.TimeoutSeconds)
		r.logger.Error("Predictor timed out",
			"target", pair.Target,
			"trial", pair.Trial,
			"timeout_seconds", r.cfg.Predictor.TimeoutSeconds)
	case result.ExitCode != 0:
		record.Outcome = models.OutcomeFailed
		record.Error = fmt.Sprintf("predictor exited with status %d", result.ExitCode)
		r.logger.Error("Predictor exited non-zero",
			"target", pair.Target,
			"trial", pair.Trial,
			"exit_code", result.ExitCode,
			"output", util.TruncateString(result.Output, 500))
	default:
		record.Outcome = models.OutcomeRan
		r.logger.Info("Predictor completed",
			"target", pair.Target,
			"trial", pair.Trial,
			"duration_ms", record.DurationMS)
	}

	success := record.Outcome == models.OutcomeRan
	r.collector.RecordInvocation(pair.Target, result.Duration, success)
	r.stats.TotalDuration += result.Duration

	return record
}

// recordOutcome updates stats and metrics for one pair
func (r *Runner) recordOutcome(record models.PairRecord) {
	r.collector.RecordOutcome(string(record.Outcome))

	switch record.Outcome {
	case models.OutcomeRan:
		r.stats.RanCount++
	case models.OutcomeSkippedExists:
		r.stats.SkippedExisting++
	case models.OutcomeSkippedFilter:
		r.stats.SkippedFiltered++
	case models.OutcomeFailed:
		r.stats.FailureCount++
	}
}

// finalize closes out stats, logs the aggregate result, and writes the
// manifest. Manifest write failures are logged but never fail the run -
// the output files on disk are the source of truth.
func (r *Runner) finalize(manifest *models.Manifest) {
	r.stats.EndTime = time.Now()
	if r.stats.RanCount > 0 {
		r.stats.AverageDuration = r.stats.TotalDuration / time.Duration(r.stats.RanCount)
	}

	manifest.FinishedAt = r.stats.EndTime
	manifest.Stats = r.stats

	r.logger.Info("Screening run complete",
		"pairs", r.stats.TotalPairs,
		"ran", r.stats.RanCount,
		"skipped_existing", r.stats.SkippedExisting,
		"skipped_filtered", r.stats.SkippedFiltered,
		"failed", r.stats.FailureCount,
		"duration", r.stats.TotalDuration)

	if r.stats.FailureCount > 0 {
		attempted := r.stats.RanCount + r.stats.FailureCount
		r.logger.Warn("Run completed with predictor failures",
			"succeeded", r.stats.RanCount,
			"attempted", attempted)
	}

	if err := results.SaveManifest(r.layout.ManifestPath(), manifest, r.logger); err != nil {
		r.logger.Warn("Failed to write run manifest", "error", err)
	}
}
