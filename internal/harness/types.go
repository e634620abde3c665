package harness

import (
	"fmt"
	"time"
)

// WorkItem is the immutable payload handed to a worker at spawn time.
// It is passed by value, so the spawner cannot change what the worker sees.
type WorkItem struct {
	// Label is the text the worker reports.
	Label string
}

// Items builds work items from labels, preserving order.
func Items(labels ...string) []WorkItem {
	items := make([]WorkItem, len(labels))
	for i, l := range labels {
		items[i] = WorkItem{Label: l}
	}
	return items
}

// State is the lifecycle state of a worker.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateCompleted
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal reports whether the worker has finished.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Status is the outcome of a joined worker.
type Status int

const (
	// StatusUnknown is the zero value; no joined result carries it.
	StatusUnknown Status = iota
	StatusSuccess
	StatusFailure
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of a worker: Success, or Failure with a non-zero code.
type Result struct {
	// Item is the work item the worker was given.
	Item WorkItem
	// Status is StatusSuccess or StatusFailure.
	Status Status
	// Code is 0 on success and the failure code otherwise.
	Code int
	// Output is what the worker recorded for its item.
	Output string
	// Err is the captured worker error, nil on success.
	Err error
	// Duration is the time spent running the worker body.
	Duration time.Duration
}

// Success reports whether the worker succeeded.
func (r Result) Success() bool { return r.Status == StatusSuccess }

// String renders the result as "<label> returns: <code>".
func (r Result) String() string {
	return fmt.Sprintf("%s returns: %d", r.Item.Label, r.Code)
}

// AnyFailed reports whether at least one result is a failure.
func AnyFailed(results []Result) bool {
	for _, r := range results {
		if !r.Success() {
			return true
		}
	}
	return false
}
