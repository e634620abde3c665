// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// resource exhaustion, invalid handles, worker failures) and for carrying the
// underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Wrapping types implement Unwrap() and the sentinel-backed types implement
// Is() so that errors.Is() and errors.As() work through any wrapping.
package apperrors
