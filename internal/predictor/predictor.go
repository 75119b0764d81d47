// Package predictor launches the external prediction program. The program is
// an opaque collaborator: it is handed a dataset path, a save path, and a
// model load directory, and is expected to write its predictions to exactly
// the save path on success.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgarton/screenrun/internal/config"
	"github.com/mgarton/screenrun/internal/util"
)

// Invocation carries the per-pair values substituted into the argv templates
type Invocation struct {
	Dataset string
	Output  string
	Model   string
	Target  string
	Trial   int
	Method  string
}

// Result describes how one invocation ended. A non-zero exit is a result,
// not a transport error.
type Result struct {
	ExitCode int
	Duration time.Duration
	Output   string // combined stdout/stderr, trimmed
	TimedOut bool
}

// Invoker runs the configured predictor command, blocking until it exits
type Invoker struct {
	command      string
	script       string
	argTemplates []string
	workingDir   string
	searchPath   string
	timeout      time.Duration
	logger       *slog.Logger
}

// New creates an invoker from the predictor configuration
func New(cfg config.PredictorConfig, logger *slog.Logger) *Invoker {
	workingDir := cfg.WorkingDir
	if workingDir == "" {
		// Run from the script's directory so the predictor can locate
		// supporting code with relative imports
		workingDir = filepath.Dir(cfg.Script)
	}

	return &Invoker{
		command:      cfg.Command,
		script:       cfg.Script,
		argTemplates: cfg.Args,
		workingDir:   workingDir,
		searchPath:   cfg.SearchPath,
		timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:       logger,
	}
}

// Run launches the predictor for one invocation and blocks until it exits.
// The combined output is written to logPath (best effort) and returned in
// the result. The returned error covers launch failures and context
// cancellation only; exit status and timeouts are reported via the result.
func (inv *Invoker) Run(ctx context.Context, in Invocation, logPath string) (Result, error) {
	args, err := inv.renderArgs(in)
	if err != nil {
		return Result{}, fmt.Errorf("failed to render predictor arguments: %w", err)
	}

	runCtx := ctx
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	argv := append([]string{inv.script}, args...)
	cmd := exec.CommandContext(runCtx, inv.command, argv...)
	cmd.Dir = inv.workingDir

	// Inherit the host environment; expose the configured search path so the
	// predictor can import its supporting code
	cmd.Env = os.Environ()
	if inv.searchPath != "" {
		cmd.Env = append(cmd.Env, "PYTHONPATH="+inv.searchPath)
	}

	inv.logger.Debug("Launching predictor",
		"command", inv.command,
		"script", inv.script,
		"args", strings.Join(args, " "),
		"dir", cmd.Dir)

	start := time.Now()
	output, runErr := cmd.CombinedOutput()
	result := Result{
		Duration: time.Since(start),
		Output:   strings.TrimSpace(string(output)),
	}

	if logPath != "" {
		if err := inv.writeLog(logPath, argv, result.Output); err != nil {
			inv.logger.Warn("Failed to write predictor log", "path", logPath, "error", err)
		}
	}

	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// Launch failure (command not found, permission denied, ...)
		return result, fmt.Errorf("failed to start predictor: %w", runErr)
	}

	result.ExitCode = 0
	return result, nil
}

// renderArgs substitutes the invocation values into the argv templates
func (inv *Invoker) renderArgs(in Invocation) ([]string, error) {
	data := map[string]interface{}{
		"Dataset": in.Dataset,
		"Output":  in.Output,
		"Model":   in.Model,
		"Target":  in.Target,
		"Trial":   in.Trial,
		"Method":  in.Method,
	}

	args := make([]string, 0, len(inv.argTemplates))
	for _, tmpl := range inv.argTemplates {
		rendered, err := util.RenderTemplate(tmpl, data)
		if err != nil {
			return nil, err
		}
		args = append(args, rendered)
	}
	return args, nil
}

func (inv *Invoker) writeLog(path string, argv []string, output string) error {
	content := fmt.Sprintf("$ %s %s\n\n%s\n", inv.command, strings.Join(argv, " "), output)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
