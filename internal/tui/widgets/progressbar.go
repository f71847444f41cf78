// ABOUTME: Minimal progress bar for share-of-total displays
// ABOUTME: Used inside metric blocks where space is tight

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CompactProgressBar renders a minimal progress bar for tight spaces
func CompactProgressBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}

	percent = min(max(percent, 0), 100)

	filled := int(percent / 100.0 * float64(width))
	empty := width - filled

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", empty))
}
