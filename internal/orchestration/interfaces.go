package orchestration

import (
	"io"

	"github.com/agbru/fanout/internal/harness"
)

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Quiet   bool
}

// ResultPresenter defines the interface for presenting worker results.
// Results are always handed over in input order.
type ResultPresenter interface {
	// PresentResults displays one entry per worker.
	PresentResults(results []harness.Result, opts PresentationOptions, out io.Writer)

	// PresentSummary displays the overall outcome of the run.
	PresentSummary(summary Summary, opts PresentationOptions, out io.Writer)
}

// ErrorHandler reports a run-level error (a refused spawn) and returns the
// exit code to use.
type ErrorHandler interface {
	HandleError(err error, out io.Writer) int
}

// NullPresenter discards everything. Useful for tests.
type NullPresenter struct{}

// Verify interface compliance.
var (
	_ ResultPresenter = NullPresenter{}
	_ ErrorHandler    = NullPresenter{}
)

func (NullPresenter) PresentResults([]harness.Result, PresentationOptions, io.Writer) {}
func (NullPresenter) PresentSummary(Summary, PresentationOptions, io.Writer)          {}

// HandleError maps err to an exit code without output.
func (NullPresenter) HandleError(err error, _ io.Writer) int { return ExitCodeForError(err) }
