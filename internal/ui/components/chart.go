// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/laborlog-tui/internal/models"
	"github.com/j-veylop/laborlog-tui/internal/ui/styles"
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	width = max(width, 20)
	height = max(height, 3)

	// asciigraph needs two points to draw a line
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Red),
	)
}

// RenderPercentBars renders one row per hour: "HH: bar count (pct%)".
// The current hour is highlighted when highlight is within 0..23.
func RenderPercentBars(stats models.DayStats, width, highlight int) string {
	barWidth := max(width-20, 10)

	maxVal := 0
	for _, n := range stats.Counts {
		maxVal = max(maxVal, n)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	barStyle := lipgloss.NewStyle().Foreground(styles.Secondary)
	peakStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	lines := make([]string, 0, models.HoursPerDay)
	for hour, n := range stats.Counts {
		barLen := n * barWidth / maxVal
		bar := strings.Repeat("█", barLen) + strings.Repeat("·", barWidth-barLen)

		label := labelStyle.Render(fmt.Sprintf("%02d:", hour))
		if hour == highlight {
			label = peakStyle.Render(fmt.Sprintf("%02d:", hour))
		}

		line := fmt.Sprintf("%s %s %d (%s%%)", label, barStyle.Render(bar), n, FormatPercent(stats.Percentages[hour]))
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// FormatPercent trims trailing zeros from a percentage: 40, 33.33, 12.5.
func FormatPercent(p float64) string {
	s := fmt.Sprintf("%.2f", p)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// RenderHourlyHeatmap creates a compact 24-hour intensity strip.
func RenderHourlyHeatmap(counts models.DayCounts) string {
	maxVal := 0
	for _, n := range counts {
		maxVal = max(maxVal, n)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	result.WriteString("00 ")

	for i, n := range counts {
		intensity := n * (len(HeatmapBlocks) - 1) / maxVal
		intensity = min(max(intensity, 0), len(HeatmapBlocks)-1)

		// Color based on intensity
		var style lipgloss.Style
		switch intensity {
		case 0:
			style = lipgloss.NewStyle().Foreground(styles.Subtle)
		case 1:
			style = lipgloss.NewStyle().Foreground(styles.Success)
		case 2:
			style = lipgloss.NewStyle().Foreground(styles.Warning)
		default:
			style = lipgloss.NewStyle().Foreground(styles.Error)
		}

		result.WriteString(style.Render(string(HeatmapBlocks[intensity])))

		// Add gap at noon for readability
		if i == 11 {
			result.WriteString(" ")
		}
	}

	result.WriteString(" 23")
	return result.String()
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart of the last
// width values.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	for _, v := range values {
		normalized := int((v / maxVal) * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// PhaseLegend returns the legend of all three phases.
func PhaseLegend() []LegendItem {
	phases := []models.Phase{models.PhaseInitial, models.PhaseActive, models.PhaseTransition}
	items := make([]LegendItem, 0, len(phases))
	for _, p := range phases {
		items = append(items, LegendItem{Label: p.String(), Color: styles.PhaseColor(p)})
	}
	return items
}
