package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps output roles to ANSI escape codes. The zero value prints
// everything uncolored.
type Theme struct {
	Name      string
	Primary   string // worker labels
	Secondary string // durations and other details
	Success   string
	Warning   string
	Error     string
	Bold      string
	Reset     string
}

// sgr256 returns the escape code selecting a foreground color from the
// 256-color palette.
func sgr256(n string) string { return "\033[38;5;" + n + "m" }

const (
	sgrBold  = "\033[1m"
	sgrReset = "\033[0m"
)

var (
	DarkTheme = Theme{
		Name: "dark", Primary: sgr256("39"), Secondary: sgr256("245"),
		Success: sgr256("82"), Warning: sgr256("220"), Error: sgr256("196"),
		Bold: sgrBold, Reset: sgrReset,
	}
	LightTheme = Theme{
		Name: "light", Primary: sgr256("27"), Secondary: sgr256("240"),
		Success: sgr256("28"), Warning: sgr256("130"), Error: sgr256("124"),
		Bold: sgrBold, Reset: sgrReset,
	}
	// NoColorTheme is selected by --no-color or the NO_COLOR variable.
	NoColorTheme = Theme{Name: "none"}
)

var themesByName = map[string]Theme{
	DarkTheme.Name:    DarkTheme,
	LightTheme.Name:   LightTheme,
	NoColorTheme.Name: NoColorTheme,
}

// TUITheme holds the lipgloss colors of the worker dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

var (
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("252"),
		Border:  lipgloss.Color("63"),
		Accent:  lipgloss.Color("75"),
		Success: lipgloss.Color("114"),
		Warning: lipgloss.Color("215"),
		Error:   lipgloss.Color("203"),
		Dim:     lipgloss.Color("242"),
	}
	NoColorTUITheme = TUITheme{
		Text: lipgloss.NoColor{}, Border: lipgloss.NoColor{}, Accent: lipgloss.NoColor{},
		Success: lipgloss.NoColor{}, Warning: lipgloss.NoColor{}, Error: lipgloss.NoColor{},
		Dim: lipgloss.NoColor{},
	}
)

var (
	mu      sync.RWMutex
	current = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// GetCurrentTUITheme returns the dashboard palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	mu.Lock()
	current = t
	mu.Unlock()
}

// SetTheme selects a theme by name ("dark", "light" or "none").
// Unknown names fall back to dark.
func SetTheme(name string) {
	t, ok := themesByName[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme picks the theme for this process. Colors are off when noColor
// is set or NO_COLOR is present in the environment (https://no-color.org/).
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
