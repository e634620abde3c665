//go:generate mockgen -source=task.go -destination=mocks/mock_task.go -package=mocks

package harness

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Task is the body a worker runs for its item. The returned string is
// recorded as the worker's output; a non-nil error marks the worker failed.
// Implementations must be safe for concurrent use.
type Task interface {
	Run(ctx context.Context, item WorkItem) (string, error)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(ctx context.Context, item WorkItem) (string, error)

// Run calls f.
func (f TaskFunc) Run(ctx context.Context, item WorkItem) (string, error) {
	return f(ctx, item)
}

// RecordTask records the item's label as the worker output.
type RecordTask struct{}

// Run returns the label.
func (RecordTask) Run(_ context.Context, item WorkItem) (string, error) {
	return item.Label, nil
}

// SyncWriter serialises writes from concurrent workers.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w.
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

// Write writes p to the underlying writer under the lock.
func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// EchoTask prints the label as soon as the worker runs, then records it.
// Lines from different workers appear in completion order.
type EchoTask struct {
	out *SyncWriter
}

// NewEchoTask returns an EchoTask printing to w.
func NewEchoTask(w io.Writer) *EchoTask {
	return &EchoTask{out: NewSyncWriter(w)}
}

// Run prints the label on its own line and returns it.
func (e *EchoTask) Run(_ context.Context, item WorkItem) (string, error) {
	if _, err := fmt.Fprintln(e.out, item.Label); err != nil {
		return "", fmt.Errorf("echo %q: %w", item.Label, err)
	}
	return item.Label, nil
}
