// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"strings"
	"sync"

	"github.com/xyproto/env/v2"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps an env key (without the FANOUT_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, *string, string)
}

var envOverrides = []envOverride{
	{"ITEMS", []string{"items"}, func(_ *AppConfig, items *string, v string) {
		*items = v
	}},
	{"MAX_WORKERS", []string{"max-workers"}, func(c *AppConfig, _ *string, _ string) {
		// Unparsable values keep the flag default.
		c.MaxWorkers = env.Int(EnvPrefix+"MAX_WORKERS", c.MaxWorkers)
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, _ *string, v string) {
		c.LogLevel = v
	}},
	{"LOG_FORMAT", []string{"log-format"}, func(c *AppConfig, _ *string, v string) {
		c.LogFormat = v
	}},
	{"ECHO", []string{"echo"}, func(c *AppConfig, _ *string, v string) {
		c.Echo = parseBoolEnv(v, c.Echo)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, _ *string, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"VERBOSE", []string{"verbose", "v"}, func(c *AppConfig, _ *string, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"METRICS", []string{"metrics"}, func(c *AppConfig, _ *string, v string) {
		c.Metrics = parseBoolEnv(v, c.Metrics)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, _ *string, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, _ *string, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
}

// envMu serializes access to the env package cache, which Load rebuilds
// without synchronizing its cache flag.
var envMu sync.Mutex

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// items receives the raw -items value so that positional arguments still win.
//
// Supported environment variables (all prefixed with FANOUT_):
//   - ITEMS, MAX_WORKERS, LOG_LEVEL, LOG_FORMAT, ECHO, QUIET, VERBOSE, METRICS, TUI, NO_COLOR
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet, items *string) {
	envMu.Lock()
	defer envMu.Unlock()
	// env caches os.Environ on first use; reload so every parse sees the
	// current process environment.
	env.Load()
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := env.Str(EnvPrefix + o.envKey); val != "" {
			o.apply(config, items, val)
		}
	}
}
