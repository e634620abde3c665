// Package ui holds the color themes shared by the CLI output and the
// dashboard. Plain output uses ANSI escape codes from Theme; the dashboard
// uses the lipgloss palette from TUITheme.
package ui
