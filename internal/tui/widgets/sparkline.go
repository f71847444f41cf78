// ABOUTME: Sparkline widget renders mini trend charts using block characters
// ABOUTME: Provides compact visual representation of a series

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters for different heights
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a compact trend visualization
// values: slice of values to display (most recent last)
// width: number of characters to render (will sample/pad as needed)
// color: optional color for the sparkline
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := sampleValues(values, width)

	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	result := make([]rune, len(sampled))
	for i, v := range sampled {
		result[i] = valueToBlock(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}

	return style.Render(string(result))
}

// sampleValues resamples the values slice to the target width
func sampleValues(values []float64, width int) []float64 {
	if len(values) == width {
		return values
	}

	result := make([]float64, width)

	if len(values) < width {
		// Pad with zeros at the beginning
		copy(result[width-len(values):], values)
		return result
	}

	ratio := float64(len(values)) / float64(width)
	for i := range width {
		idx := min(int(float64(i)*ratio), len(values)-1)
		result[i] = values[idx]
	}
	return result
}

// valueToBlock converts a value to a block character based on its position in the range
func valueToBlock(value, lo, hi float64) rune {
	if hi == lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}

	normalized := (value - lo) / (hi - lo)
	idx := int(normalized * float64(len(SparklineBlocks)-1))
	idx = min(max(idx, 0), len(SparklineBlocks)-1)

	return SparklineBlocks[idx]
}
