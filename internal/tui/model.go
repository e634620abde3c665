package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fanout/internal/config"
	apperrors "github.com/agbru/fanout/internal/errors"
	"github.com/agbru/fanout/internal/format"
	"github.com/agbru/fanout/internal/harness"
	"github.com/agbru/fanout/internal/metrics"
	"github.com/agbru/fanout/internal/orchestration"
	"github.com/agbru/fanout/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight   = 1
	summaryHeight  = 1
	footerHeight   = 2
	panelBorders   = 2
	minBodyHeight  = 3
	tickInterval   = 500 * time.Millisecond
	historyDefault = 30
)

// rowState is the display state of a worker row.
type rowState int

const (
	rowPending rowState = iota
	rowRunning
	rowSucceeded
	rowFailed
	rowRejected
)

// workerRow is one line of the worker table, in input order.
type workerRow struct {
	label  string
	id     uint64
	state  rowState
	result harness.Result
	err    error
}

// ExecutionState holds the run-related fields of a dashboard session.
type ExecutionState struct {
	rows     []workerRow
	byID     map[uint64]int
	next     int
	summary  *orchestration.Summary
	runErr   error
	done     bool
	exitCode int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// tableHeight returns the number of worker rows that fit on screen.
func (l LayoutManager) tableHeight() int {
	h := l.height - headerHeight - summaryHeight - footerHeight - panelBorders
	if h < minBodyHeight {
		h = minBodyHeight
	}
	return h
}

// Model is the root bubbletea model for the worker dashboard.
type Model struct {
	header HeaderModel
	keymap KeyMap

	ExecutionState
	LayoutManager

	offset  int
	mem     metrics.MemorySnapshot
	sampler *metrics.MemorySampler
	cpu     *SampleHistory
	sysMem  *SampleHistory
}

// NewModel creates a dashboard for the given work items.
func NewModel(items []harness.WorkItem, version string) Model {
	rows := make([]workerRow, len(items))
	for i, item := range items {
		rows[i] = workerRow{label: item.Label}
	}
	return Model{
		header: NewHeaderModel(version),
		keymap: DefaultKeyMap(),
		ExecutionState: ExecutionState{
			rows:     rows,
			byID:     make(map[uint64]int, len(items)),
			exitCode: apperrors.ExitSuccess,
		},
		sampler: metrics.NewMemorySampler(),
		cpu:     NewSampleHistory(historyDefault),
		sysMem:  NewSampleHistory(historyDefault),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), sampleMemStatsCmd(m.sampler), sampleSysStatsCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.cpu.SetLimit(max(msg.Width/4, 1))
		m.sysMem.SetLimit(max(msg.Width/4, 1))
		m.clampOffset()
		return m, nil

	case WorkerSpawnedMsg:
		// Workers are spawned in input order, so the next pending row is theirs.
		if m.next < len(m.rows) {
			m.rows[m.next].id = msg.ID
			m.byID[msg.ID] = m.next
			m.next++
		}
		return m, nil

	case WorkerStartedMsg:
		if i, ok := m.byID[msg.ID]; ok {
			m.rows[i].state = rowRunning
		}
		return m, nil

	case WorkerFinishedMsg:
		if i, ok := m.byID[msg.ID]; ok {
			m.rows[i].result = msg.Result
			m.rows[i].state = rowSucceeded
			if !msg.Result.Success() {
				m.rows[i].state = rowFailed
			}
		}
		return m, nil

	case SpawnRejectedMsg:
		if m.next < len(m.rows) {
			m.rows[m.next].state = rowRejected
			m.rows[m.next].err = msg.Err
		}
		return m, nil

	case SummaryMsg:
		s := msg.Summary
		m.summary = &s
		return m, nil

	case ErrorMsg:
		m.runErr = msg.Err
		return m, nil

	case RunCompleteMsg:
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone(msg.ExitCode != apperrors.ExitSuccess)
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleMemStatsCmd(m.sampler), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.mem = msg.MemorySnapshot
		return m, nil

	case SysStatsMsg:
		m.cpu.Push(msg.CPUPercent)
		m.sysMem.Push(msg.MemPercent)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Up):
		m.offset--
	case key.Matches(msg, m.keymap.Down):
		m.offset++
	case key.Matches(msg, m.keymap.PageUp):
		m.offset -= m.tableHeight()
	case key.Matches(msg, m.keymap.PageDown):
		m.offset += m.tableHeight()
	}
	m.clampOffset()
	return m, nil
}

func (m *Model) clampOffset() {
	maxOffset := max(len(m.rows)-m.tableHeight(), 0)
	m.offset = min(max(m.offset, 0), maxOffset)
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.tableView(),
		m.summaryView(),
		m.footerView(),
	)
}

func (m Model) tableView() string {
	labelWidth := 5
	for _, r := range m.rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.label))
	}

	height := m.tableHeight()
	lines := make([]string, 0, height)
	end := min(m.offset+height, len(m.rows))
	for _, r := range m.rows[m.offset:end] {
		lines = append(lines, formatRow(r, labelWidth))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return panelStyle.Width(max(m.width-2, 0)).Render(strings.Join(lines, "\n"))
}

func formatRow(r workerRow, labelWidth int) string {
	pad := strings.Repeat(" ", labelWidth-lipgloss.Width(r.label))
	label := labelStyle.Render(r.label) + pad
	switch r.state {
	case rowRunning:
		return fmt.Sprintf("%s %s  %s", runningStyle.Render("●"), label, runningStyle.Render("running"))
	case rowSucceeded:
		return fmt.Sprintf("%s %s  returns: %d  %s", successStyle.Render("✓"), label, r.result.Code,
			dimStyle.Render(format.FormatExecutionDuration(r.result.Duration)))
	case rowFailed:
		return fmt.Sprintf("%s %s  returns: %d  %s", failureStyle.Render("✗"), label, r.result.Code,
			failureStyle.Render(fmt.Sprint(r.result.Err)))
	case rowRejected:
		return fmt.Sprintf("%s %s  %s", failureStyle.Render("!"), label, failureStyle.Render("not spawned"))
	default:
		return fmt.Sprintf("%s %s  %s", pendingStyle.Render("○"), label, pendingStyle.Render("pending"))
	}
}

func (m Model) summaryView() string {
	var finished, failed int
	for _, r := range m.rows {
		switch r.state {
		case rowSucceeded:
			finished++
		case rowFailed:
			finished++
			failed++
		}
	}
	line := fmt.Sprintf(" %d/%d workers finished, %d failed", finished, len(m.rows), failed)
	if m.runErr != nil {
		line += "  " + failureStyle.Render(m.runErr.Error())
	}
	return line
}

func (m Model) footerView() string {
	stats := fmt.Sprintf(" heap %s (peak %s)  goroutines %d  gc %d  cpu %s %.0f%%  mem %s %.0f%%",
		format.FormatBytes(m.mem.HeapAlloc), format.FormatBytes(m.mem.PeakHeap), m.mem.NumGoroutine, m.mem.NumGC,
		cpuSparklineStyle.Render(RenderSparkline(m.cpu.Values())), m.cpu.Last(),
		memSparklineStyle.Render(RenderSparkline(m.sysMem.Values())), m.sysMem.Last())

	help := make([]string, 0, 3)
	for _, b := range m.keymap.ShortHelp() {
		h := b.Help()
		help = append(help, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return dimStyle.Render(stats) + "\n " + strings.Join(help, "  ")
}

// ExitCode returns the exit code recorded when the run completed.
func (m Model) ExitCode() int { return m.exitCode }

// Run is the public entry point for the dashboard mode. It runs one worker
// per item on h, shows their progress and returns the exit code once the
// user quits. h must have been built with bridge as one of its observers.
func Run(ctx context.Context, h *harness.Harness, items []harness.WorkItem, bridge *Bridge, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(items, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.ref.SetProgram(p)

	exitCh := make(chan int, 1)
	go func() {
		results, err := orchestration.ExecuteWorkers(ctx, h, items)
		opts := orchestration.PresentationOptions{Verbose: cfg.Verbose, Quiet: cfg.Quiet}
		code := orchestration.AnalyzeResults(len(items), results, err, opts, bridge, bridge, io.Discard)
		bridge.ref.Send(RunCompleteMsg{ExitCode: code})
		exitCh <- code
	}()

	_, runErr := p.Run()
	// The harness never cancels workers, so the run is always waited for.
	code := <-exitCh
	if runErr != nil && !apperrors.IsContextError(runErr) && code == apperrors.ExitSuccess {
		return apperrors.ExitErrorGeneric
	}
	return code
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats.
func sampleMemStatsCmd(s *metrics.MemorySampler) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{s.Sample()}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory usage.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg{sysmon.Sample()}
	}
}
