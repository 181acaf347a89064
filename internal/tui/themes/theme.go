// Package themes holds the color schemes of the assessment form.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Box      lipgloss.Style
	Primary  lipgloss.Color
}

// New builds a theme around a primary and an error color.
func New(primary, muted, errColor lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1),
		Normal: lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Muted: lipgloss.NewStyle().Foreground(muted),
		Error: lipgloss.NewStyle().Foreground(errColor).Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(1, 2),
	}
}

// Default is the default theme.
var Default = New(lipgloss.Color("#2E9E6B"), lipgloss.Color("#737373"), lipgloss.Color("#ef4444"))

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = New(lipgloss.Color("#a6e3a1"), lipgloss.Color("#6c7086"), lipgloss.Color("#f38ba8"))

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	if name == "catppuccin" || name == "catppuccin-mocha" {
		return CatppuccinMocha
	}
	return Default
}
