package orchestration

import (
	"context"
	"errors"
	"io"

	apperrors "github.com/agbru/fanout/internal/errors"
	"github.com/agbru/fanout/internal/harness"
)

// Summary aggregates the outcome of a run.
type Summary struct {
	// Requested is the number of work items.
	Requested int
	// Succeeded and Failed count joined workers by outcome.
	Succeeded int
	Failed    int
	// Err is the run-level error (a refused spawn), nil otherwise.
	Err error
}

// Joined returns the number of workers that were spawned and joined.
func (s Summary) Joined() int { return s.Succeeded + s.Failed }

// OK reports whether every requested worker ran and succeeded.
func (s Summary) OK() bool {
	return s.Err == nil && s.Failed == 0 && s.Succeeded == s.Requested
}

// ExecuteWorkers runs one worker per item on h and waits until none of the
// harness's workers is still running.
//
// Returns the results in input order and the run-level error, if any.
func ExecuteWorkers(ctx context.Context, h *harness.Harness, items []harness.WorkItem) ([]harness.Result, error) {
	results, err := h.RunAll(ctx, items)
	h.Wait()
	return results, err
}

// Summarize counts the outcomes of a run.
func Summarize(requested int, results []harness.Result, runErr error) Summary {
	s := Summary{Requested: requested, Err: runErr}
	for _, r := range results {
		if r.Success() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// AnalyzeResults presents the results and summary and returns the exit code:
// a refused spawn maps to ExitErrorResourceExhausted, any failed worker to
// ExitErrorWorker, otherwise ExitSuccess.
func AnalyzeResults(requested int, results []harness.Result, runErr error, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	presenter.PresentResults(results, opts, out)
	summary := Summarize(requested, results, runErr)
	presenter.PresentSummary(summary, opts, out)

	if runErr != nil {
		return errHandler.HandleError(runErr, out)
	}
	if summary.Failed > 0 {
		return apperrors.ExitErrorWorker
	}
	return apperrors.ExitSuccess
}

// ExitCodeForError maps a run-level error to an exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case errors.Is(err, apperrors.ErrResourceExhausted):
		return apperrors.ExitErrorResourceExhausted
	default:
		return apperrors.ExitErrorGeneric
	}
}
