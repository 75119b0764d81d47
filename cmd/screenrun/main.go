package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgarton/screenrun/internal/config"
	"github.com/mgarton/screenrun/internal/results"
	"github.com/mgarton/screenrun/internal/runner"
	"github.com/mgarton/screenrun/pkg/models"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath      string
	datasetPath     string
	experimentIndex int
	verbose         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "screenrun",
		Short: "screenrun - Virtual Screening Trial Runner",
		Long: `screenrun orchestrates repeated invocations of an external prediction
program across a set of biological targets and trial indices. Completed
(target, trial) pairs are detected by the existence of their output file
and skipped, so interrupted runs can simply be re-invoked.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the screening enumeration",
		Long: `Run the screening enumeration:
1. Enumerate all (target, trial) pairs in declared order
2. Skip pairs whose output file already exists
3. Invoke the external predictor for each remaining selected pair
4. Write a run manifest summarizing the pass`,
		RunE: runScreening,
	}

	runCmd.Flags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	runCmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset path (overrides DATASET_PATH)")
	runCmd.Flags().IntVar(&experimentIndex, "experiment-index", runner.NoFilter,
		"Only run the pair at this enumeration position (overrides EXPERIMENT_INDEX)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-pair completion status",
		Long:  "Walk the results tree and report which (target, trial) pairs have output files, plus the last run manifest",
		RunE:  showStatus,
	}

	statusCmd.Flags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	statusCmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset path (overrides DATASET_PATH)")

	targetsCmd := &cobra.Command{
		Use:   "targets",
		Short: "List supported targets",
		Long:  "List target names discovered in the targets resource directory",
		RunE:  listTargets,
	}

	targetsCmd.Flags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(targetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScreening(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Resolve the dataset path before touching the filesystem: a missing
	// dataset must fail fast without creating any directories
	dataset := resolveDataset(cfg)
	if dataset == "" {
		return runner.ErrDatasetPathMissing
	}

	filter, err := resolveExperimentIndex()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	layout := results.NewLayout(cfg.Screening.ResultsDir, cfg.Screening.Method)
	logger, logFile, err := results.SetupLogger(layout, logLevel)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer func() {
		if logFile != nil {
			_ = logFile.Sync()
			_ = logFile.Close()
		}
	}()

	logger.Info("screenrun starting",
		"version", Version,
		"config", configPath,
		"method", cfg.Screening.Method,
		"dataset", dataset)

	r := runner.New(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := r.Run(ctx, runner.Options{
		DatasetPath:     dataset,
		ExperimentIndex: filter,
		ShowProgress:    true,
	}); err != nil {
		if err == context.Canceled {
			logger.Warn("Run interrupted - re-invoke to resume; completed pairs will be skipped")
			return fmt.Errorf("run interrupted")
		}
		return fmt.Errorf("screening run failed: %w", err)
	}

	stats := r.GetStats()
	logger.Info("All done",
		"ran", stats.RanCount,
		"skipped", stats.SkippedExisting+stats.SkippedFiltered,
		"failed", stats.FailureCount,
		"manifest", r.Layout().ManifestPath())

	return nil
}

// resolveDataset picks the dataset path: flag, then environment, then config
func resolveDataset(cfg *config.Config) string {
	if datasetPath != "" {
		return datasetPath
	}
	if env := os.Getenv("DATASET_PATH"); env != "" {
		return env
	}
	return cfg.Screening.DatasetPath
}

// resolveExperimentIndex picks the index filter: flag, then environment.
// EXPERIMENT_INDEX supports job-array sharding, where each array task runs
// exactly one enumeration position.
func resolveExperimentIndex() (int, error) {
	if experimentIndex != runner.NoFilter {
		if experimentIndex < 0 {
			return 0, fmt.Errorf("--experiment-index must not be negative (got %d)", experimentIndex)
		}
		return experimentIndex, nil
	}
	env := os.Getenv("EXPERIMENT_INDEX")
	if env == "" {
		return runner.NoFilter, nil
	}
	idx, err := strconv.Atoi(env)
	if err != nil {
		return 0, fmt.Errorf("invalid EXPERIMENT_INDEX %q: %w", env, err)
	}
	if idx < 0 {
		return 0, fmt.Errorf("EXPERIMENT_INDEX must not be negative (got %d)", idx)
	}
	return idx, nil
}

// showStatus reports per-pair completion and the last run manifest
func showStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dataset := resolveDataset(cfg)
	layout := results.NewLayout(cfg.Screening.ResultsDir, cfg.Screening.Method)

	pairs := runner.Enumerate(cfg.Screening.Targets, cfg.Screening.TrialStart, cfg.Screening.TrialEnd)

	fmt.Printf("Method: %s\n", cfg.Screening.Method)
	fmt.Println()
	fmt.Printf("%-6s %-12s %-7s %-10s %s\n", "INDEX", "TARGET", "TRIAL", "STATUS", "OUTPUT")
	fmt.Println(strings.Repeat("-", 80))

	done := 0
	for _, pair := range pairs {
		status := "pending"
		output := layout.OutputDir(pair.Target, pair.Trial)

		if dataset != "" {
			output = layout.OutputFile(pair.Target, pair.Trial, dataset)
			if layout.OutputExists(pair.Target, pair.Trial, dataset) {
				status = "done"
				done++
			}
		} else if hasPredictions(layout, pair) {
			status = "done"
			done++
		}

		fmt.Printf("%-6d %-12s %-7d %-10s %s\n", pair.Index, pair.Target, pair.Trial, status, output)
	}

	fmt.Println()
	fmt.Printf("%d / %d pairs complete\n", done, len(pairs))

	manifest, err := results.LoadManifest(layout.ManifestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("No run manifest found. Run a screening pass first.")
			return nil
		}
		return fmt.Errorf("failed to load run manifest: %w", err)
	}

	fmt.Println()
	fmt.Printf("Last run: %s\n", manifest.RunID)
	fmt.Printf("  Started:  %s\n", manifest.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Finished: %s\n", manifest.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Dataset:  %s\n", manifest.DatasetPath)
	fmt.Printf("  Ran: %d  Skipped: %d  Failed: %d\n",
		manifest.Stats.RanCount,
		manifest.Stats.SkippedExisting+manifest.Stats.SkippedFiltered,
		manifest.Stats.FailureCount)

	expectedHash := results.ConfigHash(cfg.Screening.Method, cfg.Screening.Targets,
		cfg.Screening.TrialStart, cfg.Screening.TrialEnd)
	if manifest.ConfigHash != expectedHash {
		fmt.Println("  WARNING: manifest was written under a different configuration")
	}

	return nil
}

// hasPredictions reports whether a pair's output directory contains any
// prediction file. Used by status when no dataset path is known, since the
// exact output filename derives from the dataset basename.
func hasPredictions(layout results.Layout, pair models.Pair) bool {
	entries, err := os.ReadDir(layout.OutputDir(pair.Target, pair.Trial))
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && entry.Name() != results.PredictorLogFilename {
			return true
		}
	}
	return false
}

// listTargets prints the target names found in the resources directory
func listTargets(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	names, err := results.ListTargetNames(cfg.Resources.TargetsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("No targets directory found.")
			return nil
		}
		return fmt.Errorf("failed to list targets: %w", err)
	}

	if len(names) == 0 {
		fmt.Println("No targets found.")
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
