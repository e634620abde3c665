package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fanout/internal/ui"
)

// Style variables for the dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	elapsedStyle       lipgloss.Style
	labelStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	pendingStyle       lipgloss.Style
	runningStyle       lipgloss.Style
	successStyle       lipgloss.Style
	failureStyle       lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	versionStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)

	labelStyle = lipgloss.NewStyle().Foreground(t.Text)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	pendingStyle = lipgloss.NewStyle().Foreground(t.Dim)
	runningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	successStyle = lipgloss.NewStyle().Foreground(t.Success)
	failureStyle = lipgloss.NewStyle().Foreground(t.Error)

	footerKeyStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	cpuSparklineStyle = lipgloss.NewStyle().Foreground(t.Accent)
	memSparklineStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
