// Package cli renders harness runs for the command line: the per-worker
// result lines, the verbose summary and the wait indicator.
package cli

import (
	"fmt"
	"io"

	"github.com/agbru/fanout/internal/format"
	"github.com/agbru/fanout/internal/harness"
	"github.com/agbru/fanout/internal/metrics"
	"github.com/agbru/fanout/internal/orchestration"
	"github.com/agbru/fanout/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// Run-level errors go to ErrWriter when set, otherwise to the writer passed
// to HandleError.
type CLIResultPresenter struct {
	ErrWriter io.Writer
}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentResults prints one "<label> returns: <code>" line per result, in
// input order. Verbose mode appends the status, duration and failure cause.
func (CLIResultPresenter) PresentResults(results []harness.Result, opts orchestration.PresentationOptions, out io.Writer) {
	for _, r := range results {
		if !opts.Verbose || opts.Quiet {
			fmt.Fprintln(out, r.String())
			continue
		}
		fmt.Fprintln(out, FormatVerboseResult(r))
	}
}

// FormatVerboseResult renders a result line with status, duration and cause.
func FormatVerboseResult(r harness.Result) string {
	line := fmt.Sprintf("%s%s%s returns: %d  %s  %s%s%s",
		ui.ColorPrimary(), r.Item.Label, ui.ColorReset(), r.Code,
		statusBadge(r),
		ui.ColorDim(), formatDuration(r), ui.ColorReset())
	if r.Err != nil {
		line += fmt.Sprintf("  %s(%v)%s", ui.ColorRed(), r.Err, ui.ColorReset())
	}
	return line
}

func statusBadge(r harness.Result) string {
	if r.Success() {
		return fmt.Sprintf("%s✓ %s%s", ui.ColorGreen(), r.Status, ui.ColorReset())
	}
	return fmt.Sprintf("%s✗ %s%s", ui.ColorRed(), r.Status, ui.ColorReset())
}

func formatDuration(r harness.Result) string {
	if r.Duration == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(r.Duration)
}

// PresentSummary prints the run summary in verbose mode only.
func (CLIResultPresenter) PresentSummary(s orchestration.Summary, opts orchestration.PresentationOptions, out io.Writer) {
	if !opts.Verbose || opts.Quiet {
		return
	}
	fmt.Fprintf(out, "\n--- Summary ---\n")
	fmt.Fprintf(out, "Workers: %d requested, %d joined, %s%d succeeded%s, %s%d failed%s.\n",
		s.Requested, s.Joined(),
		ui.ColorGreen(), s.Succeeded, ui.ColorReset(),
		failureColor(s.Failed), s.Failed, ui.ColorReset())
	if s.Err != nil {
		fmt.Fprintf(out, "%sRun stopped early: %v%s\n", ui.ColorRed(), s.Err, ui.ColorReset())
	}
}

func failureColor(failed int) string {
	if failed > 0 {
		return ui.ColorRed()
	}
	return ui.ColorDim()
}

// HandleError reports a run-level error and returns its exit code.
func (p CLIResultPresenter) HandleError(err error, out io.Writer) int {
	if err == nil {
		return orchestration.ExitCodeForError(nil)
	}
	if p.ErrWriter != nil {
		out = p.ErrWriter
	}
	fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	return orchestration.ExitCodeForError(err)
}

// DisplayMemoryStats shows memory statistics after a run.
func DisplayMemoryStats(snap metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(snap.PeakHeap))
	fmt.Fprintf(out, "  Obtained:        %s\n", format.FormatBytes(snap.Sys))
	fmt.Fprintf(out, "  GC cycles:       %d\n", snap.NumGC)
	fmt.Fprintf(out, "  Goroutines:      %d\n", snap.NumGoroutine)
}
