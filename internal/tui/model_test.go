package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/fanout/internal/errors"
	"github.com/agbru/fanout/internal/harness"
	"github.com/agbru/fanout/internal/metrics"
	"github.com/agbru/fanout/internal/orchestration"
	"github.com/agbru/fanout/internal/sysmon"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return nm
}

func sizedModel(t *testing.T, labels ...string) Model {
	t.Helper()
	m := NewModel(harness.Items(labels...), "v1.0.0")
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
}

func TestModel_InitialView(t *testing.T) {
	m := NewModel(harness.Items("Thread 1"), "dev")
	if got := m.View(); got != "Initializing..." {
		t.Errorf("expected placeholder before sizing, got %q", got)
	}

	m = sizedModel(t, "Thread 1", "Thread 2")
	view := m.View()
	for _, s := range []string{"fanout monitor v1.0.0", "Thread 1", "Thread 2", "pending", "0/2 workers finished", "q quit"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected view to contain %q, got:\n%s", s, view)
		}
	}
}

func TestModel_WorkerLifecycle(t *testing.T) {
	m := sizedModel(t, "Thread 1", "Thread 2")

	m = update(t, m, WorkerSpawnedMsg{ID: 7, Item: harness.WorkItem{Label: "Thread 1"}})
	m = update(t, m, WorkerSpawnedMsg{ID: 8, Item: harness.WorkItem{Label: "Thread 2"}})
	m = update(t, m, WorkerStartedMsg{ID: 8})
	if m.rows[1].state != rowRunning || m.rows[0].state != rowPending {
		t.Fatalf("unexpected row states %v / %v", m.rows[0].state, m.rows[1].state)
	}

	m = update(t, m, WorkerFinishedMsg{ID: 8, Result: harness.Result{
		Item: harness.WorkItem{Label: "Thread 2"}, Status: harness.StatusFailure, Code: 3, Err: errors.New("exit 3"),
	}})
	m = update(t, m, WorkerStartedMsg{ID: 7})
	m = update(t, m, WorkerFinishedMsg{ID: 7, Result: harness.Result{
		Item: harness.WorkItem{Label: "Thread 1"}, Status: harness.StatusSuccess, Duration: time.Millisecond,
	}})

	if m.rows[0].state != rowSucceeded || m.rows[1].state != rowFailed {
		t.Fatalf("unexpected row states %v / %v", m.rows[0].state, m.rows[1].state)
	}
	view := m.View()
	for _, s := range []string{"returns: 0", "returns: 3", "exit 3", "2/2 workers finished, 1 failed"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected view to contain %q, got:\n%s", s, view)
		}
	}
}

func TestModel_UnknownWorkerIgnored(t *testing.T) {
	m := sizedModel(t, "a")
	m = update(t, m, WorkerStartedMsg{ID: 42})
	m = update(t, m, WorkerFinishedMsg{ID: 42, Result: harness.Result{Status: harness.StatusSuccess}})
	if m.rows[0].state != rowPending {
		t.Errorf("unknown worker ids must not change rows, got %v", m.rows[0].state)
	}
}

func TestModel_SpawnRejected(t *testing.T) {
	m := sizedModel(t, "a", "b", "c")
	m = update(t, m, WorkerSpawnedMsg{ID: 1})
	m = update(t, m, SpawnRejectedMsg{Item: harness.WorkItem{Label: "b"}, Err: apperrors.ResourceExhaustedError{Label: "b", Limit: 1}})
	m = update(t, m, ErrorMsg{Err: errors.New("spawned 1 of 3 workers")})

	if m.rows[1].state != rowRejected || m.rows[2].state != rowPending {
		t.Errorf("unexpected row states %v / %v", m.rows[1].state, m.rows[2].state)
	}
	view := m.View()
	if !strings.Contains(view, "not spawned") || !strings.Contains(view, "spawned 1 of 3 workers") {
		t.Errorf("expected rejection in view, got:\n%s", view)
	}
}

func TestModel_RunComplete(t *testing.T) {
	m := sizedModel(t, "a")
	m = update(t, m, SummaryMsg{Summary: orchestration.Summary{Requested: 1, Succeeded: 1}})
	m = update(t, m, RunCompleteMsg{ExitCode: apperrors.ExitErrorWorker})
	if !m.done || m.ExitCode() != apperrors.ExitErrorWorker {
		t.Errorf("expected done with code %d, got done=%v code=%d", apperrors.ExitErrorWorker, m.done, m.ExitCode())
	}
	if m.summary == nil || m.summary.Succeeded != 1 {
		t.Errorf("expected summary to be stored, got %+v", m.summary)
	}
	if !strings.Contains(m.View(), "FAILED") {
		t.Error("header should show FAILED for a non-zero exit code")
	}
}

func TestModel_Stats(t *testing.T) {
	m := sizedModel(t, "a")
	m = update(t, m, MemStatsMsg{metrics.MemorySnapshot{HeapAlloc: 2048, PeakHeap: 4096, NumGoroutine: 5}})
	m = update(t, m, SysStatsMsg{sysmon.Stats{CPUPercent: 50, MemPercent: 25}})
	view := m.View()
	for _, s := range []string{"heap 2.0 KiB (peak 4.0 KiB)", "goroutines 5", "50%", "25%"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected footer to contain %q, got:\n%s", s, view)
		}
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := sizedModel(t, "a")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg from quit key")
	}
}

func TestModel_Scroll(t *testing.T) {
	labels := make([]string, 50)
	for i := range labels {
		labels[i] = "w"
	}
	m := sizedModel(t, labels...)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.offset != 1 {
		t.Errorf("expected offset 1 after down, got %d", m.offset)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	if want := len(labels) - m.tableHeight(); m.offset != want {
		t.Errorf("expected offset clamped to %d, got %d", want, m.offset)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	for i := 0; i < 100; i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.offset != 0 {
		t.Errorf("expected offset clamped to 0, got %d", m.offset)
	}
}

func TestLayoutManager_TableHeight(t *testing.T) {
	if got := (LayoutManager{height: 2}).tableHeight(); got != minBodyHeight {
		t.Errorf("expected minimum height %d, got %d", minBodyHeight, got)
	}
	if got := (LayoutManager{height: 30}).tableHeight(); got != 30-headerHeight-summaryHeight-footerHeight-panelBorders {
		t.Errorf("unexpected table height %d", got)
	}
}
