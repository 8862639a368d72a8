// Package statschart draws per-day usage counters as a bar chart.
package statschart

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/stats"
)

// Days is the number of days the chart covers.
const Days = 7

var (
	counterStyles = map[string]lipgloss.Style{
		constants.StatTimersCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		constants.StatAlarmsRung:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		constants.StatTasksCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
	counters = []string{constants.StatTimersCompleted, constants.StatAlarmsRung, constants.StatTasksCompleted}

	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type Model struct {
	chart  barchart.Model
	totals map[string]int
	width  int
	height int
}

func New(width, height int) Model {
	m := Model{width: width, height: height}
	m.Build(models.Stats{}, time.Now())
	return m
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Build redraws the chart for the Days days ending at end.
func (m *Model) Build(s models.Stats, end time.Time) {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	series := make(map[string][]int, len(counters))
	m.totals = make(map[string]int, len(counters))
	for _, c := range counters {
		series[c] = stats.Series(s, c, end, Days)
		for _, v := range series[c] {
			m.totals[c] += v
		}
	}

	bars := make([]barchart.BarData, 0, Days)
	for i := 0; i < Days; i++ {
		day := end.AddDate(0, 0, i-Days+1)
		var values []barchart.BarValue
		for _, c := range counters {
			if v := series[c][i]; v > 0 {
				values = append(values, barchart.BarValue{Name: c, Value: float64(v), Style: counterStyles[c]})
			}
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: legendStyle}}
		}
		bars = append(bars, barchart.BarData{Label: day.Format("Mon"), Values: values})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

// Total returns the sum of counter over the charted days.
func (m Model) Total(counter string) int {
	return m.totals[counter]
}

func (m Model) View() string {
	legend := ""
	for _, c := range counters {
		legend += counterStyles[c].Render("■") + legendStyle.Render(fmt.Sprintf(" %s %d  ", c, m.totals[c]))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Last %d days", Days)),
		"",
		m.chart.View(),
		"",
		legend,
	)
}
