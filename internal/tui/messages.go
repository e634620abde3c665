package tui

import (
	"time"

	"github.com/agbru/fanout/internal/harness"
	"github.com/agbru/fanout/internal/metrics"
	"github.com/agbru/fanout/internal/orchestration"
	"github.com/agbru/fanout/internal/sysmon"
)

// WorkerSpawnedMsg is sent when the harness accepted a worker.
type WorkerSpawnedMsg struct {
	ID   uint64
	Item harness.WorkItem
}

// WorkerStartedMsg is sent when a worker begins running its task.
type WorkerStartedMsg struct {
	ID uint64
}

// WorkerFinishedMsg is sent when a worker reached a terminal state.
type WorkerFinishedMsg struct {
	ID     uint64
	Result harness.Result
}

// SpawnRejectedMsg is sent when the harness refused a worker.
type SpawnRejectedMsg struct {
	Item harness.WorkItem
	Err  error
}

// SummaryMsg carries the run summary once every worker was joined.
type SummaryMsg struct {
	Summary orchestration.Summary
}

// ErrorMsg carries a run-level error.
type ErrorMsg struct {
	Err error
}

// RunCompleteMsg is sent when the run is over.
type RunCompleteMsg struct {
	ExitCode int
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory snapshot.
type MemStatsMsg struct {
	metrics.MemorySnapshot
}

// SysStatsMsg carries system-wide CPU and memory usage.
type SysStatsMsg struct {
	sysmon.Stats
}
