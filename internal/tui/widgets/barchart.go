// ABOUTME: Vertical bar chart built from block characters
// ABOUTME: Renders one labelled column per value, scaled to the tallest

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 4

// BarChart renders values as columns height rows tall with labels underneath.
// labels and values must have the same length.
func BarChart(labels []string, values []int, height int, color lipgloss.Color) string {
	if len(values) == 0 || height <= 0 {
		return ""
	}

	top := 0
	for _, v := range values {
		top = max(top, v)
	}

	// Heights in eighths of a row
	units := make([]int, len(values))
	for i, v := range values {
		if top > 0 {
			units[i] = v * height * 8 / top
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(color)
	var rows []string

	valueRow := make([]string, len(values))
	for i, v := range values {
		valueRow[i] = center(fmt.Sprintf("%d", v), barWidth+1)
	}
	rows = append(rows, subtitleStyle.Render(strings.Join(valueRow, "")))

	for row := height - 1; row >= 0; row-- {
		var sb strings.Builder
		for _, u := range units {
			fill := u - row*8
			var cell string
			switch {
			case fill >= 8:
				cell = strings.Repeat("█", barWidth)
			case fill > 0:
				cell = strings.Repeat(string(SparklineBlocks[fill-1]), barWidth)
			default:
				cell = strings.Repeat(" ", barWidth)
			}
			sb.WriteString(barStyle.Render(cell) + " ")
		}
		rows = append(rows, strings.TrimRight(sb.String(), " "))
	}

	labelRow := make([]string, len(labels))
	for i, l := range labels {
		labelRow[i] = center(l, barWidth+1)
	}
	rows = append(rows, strings.Join(labelRow, ""))

	return strings.Join(rows, "\n")
}

func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
