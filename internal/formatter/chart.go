package formatter

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultChartWidth  = 72
	defaultChartHeight = 16
)

var (
	chartLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	chartAxisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chartLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// RenderChart draws a braille line chart of the series sized for the
// terminal. Zero width or height fall back to defaults.
func RenderChart(series *Series, width, height int) string {
	if series == nil || len(series.Points) == 0 {
		return ""
	}
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}

	chart := timeserieslinechart.New(width, height,
		timeserieslinechart.WithAxesStyles(chartAxisStyle, chartLabelStyle),
	)
	chart.SetLineStyle(runes.ThinLineStyle)
	chart.SetStyle(chartLineStyle)

	for _, p := range series.Points {
		chart.Push(timeserieslinechart.TimePoint{Time: p.Time, Value: p.Value})
	}
	chart.DrawBraille()

	var b strings.Builder
	if series.Label != "" {
		b.WriteString(chartLabelStyle.Render(fmt.Sprintf("%s over time", series.Label)))
		b.WriteString("\n")
	}
	b.WriteString(chart.View())
	return b.String()
}
