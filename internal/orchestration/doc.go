// Package orchestration drives a harness run and turns its results into an
// exit code. It decouples the harness from presentation via the
// ResultPresenter and ErrorHandler interfaces, so the CLI and the dashboard
// share the same run and analysis logic.
package orchestration
