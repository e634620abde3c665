package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fanout/internal/format"
)

// runStatus is the overall state shown in the header.
type runStatus int

const (
	statusRunning runStatus = iota
	statusDone
	statusError
)

// HeaderModel renders the top bar: title, version, elapsed time, status.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	status    runStatus
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetDone freezes the elapsed timer and records the final status.
func (h *HeaderModel) SetDone(failed bool) {
	h.endTime = time.Now()
	h.status = statusDone
	if failed {
		h.status = statusError
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since start, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "fanout monitor"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")
	left := titleStyle.Render(titleText) + pipe +
		elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	var status string
	switch h.status {
	case statusDone:
		status = statusDoneStyle.Render("DONE")
	case statusError:
		status = statusErrorStyle.Render("FAILED")
	default:
		status = statusRunningStyle.Render("RUNNING")
	}

	gap := h.width - 2 - lipgloss.Width(left) - lipgloss.Width(status)
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", max(gap, 0)) + status)
}
