// Package ui holds the terminal styles shared by the CLI binaries.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the MCP client.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}

// DefaultTheme returns the default color theme.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Accent:    lipgloss.Color("#F59E0B"), // Amber

		Success: lipgloss.Color("#10B981"), // Emerald
		Warning: lipgloss.Color("#F59E0B"), // Amber
		Error:   lipgloss.Color("#EF4444"), // Red
		Muted:   lipgloss.Color("#6B7280"), // Gray
	}
}

// Styles contains the styled components used by the session and commands.
type Styles struct {
	Prompt   lipgloss.Style
	Header   lipgloss.Style
	ToolName lipgloss.Style
	ToolDesc lipgloss.Style
	Provider lipgloss.Style
	Result   lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
}

// NewStyles creates styled components from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Prompt: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		ToolName: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		ToolDesc: lipgloss.NewStyle().
			Foreground(t.Muted),

		Provider: lipgloss.NewStyle().
			Foreground(t.Secondary),

		Result: lipgloss.NewStyle().
			PaddingLeft(2),

		Error: lipgloss.NewStyle().
			Foreground(t.Error),

		Muted: lipgloss.NewStyle().
			Foreground(t.Muted),

		Success: lipgloss.NewStyle().
			Foreground(t.Success),
	}
}

// DefaultStyles returns styles built from the default theme.
func DefaultStyles() Styles {
	return NewStyles(DefaultTheme())
}
