// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, text styles and the huh form theme used across screens

package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#0D9488") // Teal
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light

	// Colors - Extended palette
	Accent  = lipgloss.Color("#2DD4BF") // Lighter teal for highlights
	Surface = lipgloss.Color("#374151") // Elevated surface background
	Info    = lipgloss.Color("#3B82F6") // Blue - informational

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Banner shows the last failure above the content
	Banner = lipgloss.NewStyle().
		Foreground(Text).
		Background(Danger).
		Padding(0, 1)

	// Notice shows the last success or pending confirmation
	Notice = lipgloss.NewStyle().
		Foreground(Secondary)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Modal frames the product form over the list
	Modal = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(Accent).
		Padding(1, 2)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)
)

// FormTheme returns the huh theme used by the login and product forms
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(Surface).
		Padding(0, 2).
		MarginRight(1)

	// Blurred fields keep the layout with muted colors
	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)

	return t
}
