// Package config parses command-line flags and environment variables into
// the application configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/agbru/fanout/internal/errors"
	"github.com/agbru/fanout/internal/logging"
)

// EnvPrefix is prepended to every environment variable the application reads.
const EnvPrefix = "FANOUT_"

// Log formats accepted by -log-format.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// DefaultItems are the labels run when none are given.
var DefaultItems = []string{"Thread 1", "Thread 2"}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Items are the work item labels, in the order results are reported.
	Items []string
	// MaxWorkers caps concurrently running workers; 0 derives it from the platform.
	MaxWorkers int
	// Echo makes each worker print its label as soon as it runs.
	Echo bool
	// Quiet suppresses everything except the per-worker result lines.
	Quiet bool
	// Verbose adds durations and failure causes to the result lines.
	Verbose bool
	// LogLevel is the zerolog level name for diagnostic logs on stderr.
	LogLevel string
	// LogFormat selects console or JSON diagnostic logs.
	LogFormat string
	// Metrics dumps the Prometheus metrics to stderr after the run.
	Metrics bool
	// TUI launches the interactive dashboard instead of plain output.
	TUI bool
	// NoColor disables colored output.
	NoColor bool
}

// Validate checks the configuration for semantic errors.
func (c AppConfig) Validate() error {
	if c.MaxWorkers < 0 {
		return apperrors.NewConfigError("--max-workers must be >= 0, got %d", c.MaxWorkers)
	}
	for i, label := range c.Items {
		if label == "" {
			return apperrors.ValidationError{Field: "items", Message: fmt.Sprintf("label %d is empty", i+1)}
		}
	}
	switch c.LogFormat {
	case "", LogFormatConsole, LogFormatJSON:
	default:
		return apperrors.NewConfigError("unknown log format %q (want %s or %s)", c.LogFormat, LogFormatConsole, LogFormatJSON)
	}
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return apperrors.NewConfigError("unknown log level %q", c.LogLevel)
		}
	}
	return nil
}

// ParseConfig parses args into an AppConfig.
// Priority: CLI flags > environment variables (FANOUT_*) > defaults.
// Positional arguments, when present, replace the -items list.
//
// Returns flag.ErrHelp when -h/--help was requested.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	config := AppConfig{}
	var items string
	fs.StringVar(&items, "items", strings.Join(DefaultItems, ","), "Comma-separated work item labels.")
	fs.IntVar(&config.MaxWorkers, "max-workers", 0, "Maximum concurrently running workers (0 = platform limit).")
	fs.BoolVar(&config.Echo, "echo", false, "Let each worker print its label as soon as it runs.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Only print the result lines.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Show durations and failure causes.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.StringVar(&config.LogLevel, "log-level", "warn", "Diagnostic log level (debug, info, warn, error, disabled).")
	fs.StringVar(&config.LogFormat, "log-format", LogFormatConsole, "Diagnostic log format (console, json).")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print Prometheus metrics to stderr after the run.")
	fs.BoolVar(&config.TUI, "tui", false, "Show the interactive worker dashboard.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags] [label ...]\n\n", programName)
		fmt.Fprintf(errWriter, "Runs one concurrent worker per label and reports each outcome in input order.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs, &items)

	if fs.NArg() > 0 {
		config.Items = append([]string(nil), fs.Args()...)
	} else {
		config.Items = SplitItems(items)
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintf(errWriter, "Error: %v\n", err)
		return AppConfig{}, err
	}
	return config, nil
}

// SplitItems splits a comma-separated label list, trimming whitespace.
// An empty or blank list yields no items.
func SplitItems(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
