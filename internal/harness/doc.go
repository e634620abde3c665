// Package harness runs a small, fixed set of independent workers and reports
// their outcomes.
//
// A Harness spawns one goroutine per WorkItem, hands the item over by value,
// and returns a Handle that must be joined exactly once. RunAll spawns a
// worker per item, joins all of them and returns results in input order,
// regardless of the order in which workers complete.
//
// Errors raised inside a worker never escape it: they are captured in the
// worker's Result. Only spawn refusals (apperrors.ErrResourceExhausted) and
// misuse of handles (apperrors.ErrInvalidHandle) are returned to the caller.
// The harness never cancels or times out a worker.
package harness
