// ABOUTME: Compact metric block widget for dashboard displays
// ABOUTME: Combines icon, value, optional bar or sparkline and a caption in a bordered panel

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       24,
		BorderColor: lipgloss.Color("#6B7280"), // Muted gray
		TitleColor:  lipgloss.Color("#0D9488"), // Teal
		ValueColor:  lipgloss.Color("#F9FAFB"), // Light
	}
}

// MetricBlock renders a compact metric display block
func MetricBlock(icon icons.Icon, title, value, subtitle string, config MetricBlockConfig) string {
	config = withDefaults(config)
	inner := config.Width - 4

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	return box(icon, title, config, []string{
		valueStyle.Render(value),
		subtitleStyle.Render(truncate(subtitle, inner)),
	})
}

// MetricBlockWithBar renders a metric block with a share bar, e.g. low-stock products out of all
func MetricBlockWithBar(icon icons.Icon, title, value string, percent float64, color lipgloss.Color, config MetricBlockConfig) string {
	config = withDefaults(config)
	inner := config.Width - 4

	valueStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	return box(icon, title, config, []string{
		valueStyle.Render(value),
		CompactProgressBar(percent, inner, color),
	})
}

// MetricBlockWithSparkline renders a metric block with a sparkline
func MetricBlockWithSparkline(icon icons.Icon, title, value string, sparkData []float64, subtitle string, config MetricBlockConfig) string {
	config = withDefaults(config)
	inner := config.Width - 4
	sparkWidth := min(len(sparkData), 8)

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	spark := Sparkline(sparkData, sparkWidth, config.TitleColor)

	return box(icon, title, config, []string{
		valueStyle.Render(value) + "  " + spark,
		subtitleStyle.Render(truncate(subtitle, inner)),
	})
}

// CountBlock renders a simple count metric
func CountBlock(icon icons.Icon, title string, count int, label string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, fmt.Sprintf("%d", count), label, config)
}

var subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

func withDefaults(config MetricBlockConfig) MetricBlockConfig {
	if config.Width <= 0 {
		config.Width = DefaultMetricBlockConfig().Width
	}
	return config
}

// box draws the title-in-border frame around pre-rendered lines
func box(icon icons.Icon, title string, config MetricBlockConfig, lines []string) string {
	inner := config.Width - 4
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)

	titleStr := truncate(icon.String()+" "+title, inner)
	top := borderStyle.Render("┌─ ") +
		titleStyle.Render(titleStr) +
		borderStyle.Render(" "+strings.Repeat("─", max(0, config.Width-5-lipgloss.Width(titleStr)))+"┐")

	out := []string{top}
	for _, line := range lines {
		pad := max(0, inner-lipgloss.Width(line))
		out = append(out, borderStyle.Render("│ ")+" "+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}
	out = append(out, borderStyle.Render("└"+strings.Repeat("─", config.Width-2)+"┘"))

	return strings.Join(out, "\n")
}

// truncate shortens a string to maxLen cells with ellipsis if needed
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:min(len(r), maxLen)])
	}
	for lipgloss.Width(string(r)) > maxLen-3 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
