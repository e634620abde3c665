package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fanout/internal/harness"
	"github.com/agbru/fanout/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// bubbletea copies the model on every Update, so the bridge keeps a pointer
// that survives copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
// It is a no-op until a program is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Bridge forwards harness lifecycle events and run results to the dashboard
// as bubbletea messages. Register it on the harness with harness.WithObserver.
type Bridge struct {
	ref *programRef
}

// Verify interface compliance.
var (
	_ harness.Observer              = (*Bridge)(nil)
	_ orchestration.ResultPresenter = (*Bridge)(nil)
	_ orchestration.ErrorHandler    = (*Bridge)(nil)
)

// NewBridge creates a bridge not yet attached to a program.
func NewBridge() *Bridge {
	return &Bridge{ref: &programRef{}}
}

func (b *Bridge) WorkerSpawned(id uint64, item harness.WorkItem) {
	b.ref.Send(WorkerSpawnedMsg{ID: id, Item: item})
}

func (b *Bridge) WorkerStarted(id uint64, _ harness.WorkItem) {
	b.ref.Send(WorkerStartedMsg{ID: id})
}

func (b *Bridge) WorkerFinished(id uint64, r harness.Result) {
	b.ref.Send(WorkerFinishedMsg{ID: id, Result: r})
}

func (b *Bridge) SpawnRejected(item harness.WorkItem, err error) {
	b.ref.Send(SpawnRejectedMsg{Item: item, Err: err})
}

// PresentResults is a no-op: the dashboard already holds every result from
// WorkerFinished events.
func (b *Bridge) PresentResults([]harness.Result, orchestration.PresentationOptions, io.Writer) {}

// PresentSummary sends the summary to the dashboard.
func (b *Bridge) PresentSummary(s orchestration.Summary, _ orchestration.PresentationOptions, _ io.Writer) {
	b.ref.Send(SummaryMsg{Summary: s})
}

// HandleError sends the error to the dashboard and returns its exit code.
func (b *Bridge) HandleError(err error, _ io.Writer) int {
	b.ref.Send(ErrorMsg{Err: err})
	return orchestration.ExitCodeForError(err)
}
