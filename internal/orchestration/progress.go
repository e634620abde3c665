package orchestration

import (
	"sync"

	"github.com/agbru/fanout/internal/harness"
)

// ProgressSnapshot is a consistent view of a run in progress.
type ProgressSnapshot struct {
	Total    int
	Spawned  int
	Running  int
	Finished int
	Failed   int
	Rejected int
}

// Fraction returns the finished share of Total, 0 when Total is 0.
func (p ProgressSnapshot) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Finished) / float64(p.Total)
}

// ProgressTracker is a harness.Observer counting worker transitions.
// Both the CLI wait indicator and the dashboard poll it.
type ProgressTracker struct {
	mu   sync.Mutex
	snap ProgressSnapshot
}

var _ harness.Observer = (*ProgressTracker)(nil)

// NewProgressTracker creates a tracker for a run of total workers.
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{snap: ProgressSnapshot{Total: total}}
}

// Snapshot returns the current counters.
func (p *ProgressTracker) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

func (p *ProgressTracker) WorkerSpawned(uint64, harness.WorkItem) {
	p.mu.Lock()
	p.snap.Spawned++
	p.mu.Unlock()
}

func (p *ProgressTracker) WorkerStarted(uint64, harness.WorkItem) {
	p.mu.Lock()
	p.snap.Running++
	p.mu.Unlock()
}

func (p *ProgressTracker) WorkerFinished(_ uint64, r harness.Result) {
	p.mu.Lock()
	p.snap.Running--
	p.snap.Finished++
	if !r.Success() {
		p.snap.Failed++
	}
	p.mu.Unlock()
}

func (p *ProgressTracker) SpawnRejected(harness.WorkItem, error) {
	p.mu.Lock()
	p.snap.Rejected++
	p.mu.Unlock()
}
