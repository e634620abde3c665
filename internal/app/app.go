// Package app wires configuration, the harness and the presentation layers
// into the fanout command.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/fanout/internal/cli"
	"github.com/agbru/fanout/internal/config"
	apperrors "github.com/agbru/fanout/internal/errors"
	"github.com/agbru/fanout/internal/harness"
	"github.com/agbru/fanout/internal/logging"
	"github.com/agbru/fanout/internal/metrics"
	"github.com/agbru/fanout/internal/orchestration"
	"github.com/agbru/fanout/internal/tui"
	"github.com/agbru/fanout/internal/ui"
)

// Application represents the fanout application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "fanout"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	return &Application{Config: config.ApplyPlatformLimits(cfg), ErrWriter: errWriter}, nil
}

// newLogger builds the diagnostic logger for component on ErrWriter.
func (a *Application) newLogger(component string) logging.Logger {
	if a.Config.LogFormat == config.LogFormatJSON {
		return logging.NewLogger(a.ErrWriter, component)
	}
	return logging.NewConsoleLogger(a.ErrWriter, component, a.Config.NoColor)
}

// Run executes the application and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := a.newLogger("harness")
	logger.Debug("configuration loaded",
		logging.Int("items", len(a.Config.Items)), logging.Int("max_workers", a.Config.MaxWorkers))

	hm := metrics.NewHarnessMetrics()
	opts := []harness.Option{
		harness.WithMaxWorkers(a.Config.MaxWorkers),
		harness.WithLogger(logger),
	}

	var code int
	if a.Config.TUI {
		code = a.runTUI(ctx, hm, opts)
	} else {
		code = a.runWorkers(ctx, out, hm, opts)
	}

	if a.Config.Metrics {
		if err := hm.WriteText(a.ErrWriter); err != nil {
			logger.Error("metrics export failed", err)
		}
	}
	return code
}

// runWorkers runs the work items with plain CLI output.
func (a *Application) runWorkers(ctx context.Context, out io.Writer, hm *metrics.HarnessMetrics, opts []harness.Option) int {
	items := harness.Items(a.Config.Items...)
	tracker := orchestration.NewProgressTracker(len(items))

	if a.Config.Echo {
		opts = append(opts, harness.WithTask(harness.NewEchoTask(out)))
	}
	opts = append(opts, harness.WithObserver(hm, tracker))
	h := harness.New(opts...)

	presOpts := orchestration.PresentationOptions{Verbose: a.Config.Verbose, Quiet: a.Config.Quiet}
	if presOpts.Verbose && !presOpts.Quiet {
		cli.PrintExecutionConfig(a.Config, h.MaxWorkers(), out)
	}

	// The wait indicator writes to stderr and only animates on a terminal.
	var wg sync.WaitGroup
	done := make(chan struct{})
	if !a.Config.Quiet && !a.Config.Echo {
		wg.Add(1)
		go cli.DisplayProgress(&wg, done, tracker, a.ErrWriter)
	}

	results, runErr := orchestration.ExecuteWorkers(ctx, h, items)
	close(done)
	wg.Wait()

	presenter := cli.CLIResultPresenter{ErrWriter: a.ErrWriter}
	code := orchestration.AnalyzeResults(len(items), results, runErr, presOpts, presenter, presenter, out)

	if presOpts.Verbose && !presOpts.Quiet {
		cli.DisplayMemoryStats(metrics.NewMemorySampler().Sample(), out)
	}
	return code
}

// runTUI launches the interactive worker dashboard.
func (a *Application) runTUI(ctx context.Context, hm *metrics.HarnessMetrics, opts []harness.Option) int {
	bridge := tui.NewBridge()
	opts = append(opts, harness.WithObserver(hm, bridge))
	h := harness.New(opts...)
	return tui.Run(ctx, h, harness.Items(a.Config.Items...), bridge, a.Config, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCodeForParseError maps an error returned by New to an exit code.
func ExitCodeForParseError(err error) int {
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case IsHelpError(err):
		return apperrors.ExitSuccess
	default:
		return apperrors.ExitErrorConfig
	}
}
