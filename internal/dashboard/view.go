package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/session"
)

// Caption is printed under every dashboard.
const Caption = "Demo app – GreenGrid"

// NoAlertsText is shown in the alert feed before the first overload.
const NoAlertsText = "No overloads yet"

const (
	defaultWidth       = 100
	defaultChartHeight = 10
	minChartHeight     = 3
	maxChartHeight     = 20
	sparklineWidth     = 12
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	snap := m.Snapshot()

	var b strings.Builder
	b.WriteString(m.renderHeader(snap))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case TabAlerts:
		b.WriteString(m.renderAlerts(snap))
	default:
		b.WriteString(m.renderCharts(snap))
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title bar with summary stats.
func (m Model) renderHeader(snap session.Snapshot) string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render(m.title)

	updateText := "waiting for first reading"
	if !m.lastUpdate.IsZero() {
		updateText = "last reading " + m.lastUpdate.Format(grid.ClockLayout)
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %d substations | %d readings | %d alerts | %s",
			len(m.ids), snap.Readings, snap.AlertsTotal, updateText))

	header := title + stats
	if m.paused {
		header += PausedStyle.Render("  ⏸ paused")
	}
	return HeaderStyle.Render(header)
}

// renderTabs renders the tab bar.
func (m Model) renderTabs() string {
	tabs := []Tab{TabCharts, TabAlerts}
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.tab {
			parts = append(parts, TabActiveStyle.Render(label))
		} else {
			parts = append(parts, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// contentWidth returns the usable width, falling back before the first resize.
func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// chartHeight sizes the chart to the terminal, leaving room for the header,
// tabs, metric cards and footer.
func (m Model) chartHeight() int {
	if m.height <= 0 {
		return defaultChartHeight
	}
	h := m.height - 15
	if h < minChartHeight {
		return minChartHeight
	}
	if h > maxChartHeight {
		return maxChartHeight
	}
	return h
}

// renderCharts renders the Live Charts tab.
func (m Model) renderCharts(snap session.Snapshot) string {
	width := m.contentWidth()

	if m.Layout() == LayoutMinimal {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderInlineSelector(),
			"",
			m.renderChartPanel(snap, width),
		)
	}

	selector := m.renderSelector()
	panelWidth := width - lipgloss.Width(selector) - 2
	if panelWidth < 30 {
		panelWidth = 30
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, selector, "  ", m.renderChartPanel(snap, panelWidth))
}

// renderInlineSelector renders a one-line selector for narrow terminals.
func (m Model) renderInlineSelector() string {
	id := m.Selected()
	return SelectorSelectedStyle.Render(fmt.Sprintf("◀ %s ▶", id)) +
		MutedStyle.Render(fmt.Sprintf("  %d/%d", m.selected+1, len(m.ids)))
}

// renderSelector renders the substation list with the selection marked.
func (m Model) renderSelector() string {
	showSparklines := m.Layout() >= LayoutStandard

	lines := []string{LabelStyle.Render("Select substation"), ""}
	for i, id := range m.ids {
		cursor := " "
		style := SelectorItemStyle
		if i == m.selected {
			cursor = SelectorCursor
			style = SelectorSelectedStyle
		}
		line := style.Render(fmt.Sprintf("%s %s", cursor, id))

		if showSparklines {
			s := m.session.Snapshot(id)
			data := loads(s.Series)
			spark := RenderMiniSparkline(data, sparklineWidth, s.LimitKW, ChartScale(float64(s.CapacityKW), data))
			line += " " + spark + strings.Repeat(" ", sparklineWidth-lipgloss.Width(spark))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderChartPanel renders the chart and metric cards for snap, or a
// placeholder when the substation has no readings yet.
func (m Model) renderChartPanel(snap session.Snapshot, width int) string {
	title := fmt.Sprintf("Load Profile · %s", snap.Substation)

	if !snap.HasData {
		lines := []string{
			SectionHeader(title, "no data", width),
			SectionContentLine("", width),
			SectionContentLine(LabelStyle.Render(fmt.Sprintf("No readings for %s yet.", snap.Substation)), width),
			SectionContentLine(MutedStyle.Render("Press r to take a reading, or wait for the next tick."), width),
			SectionContentLine("", width),
			SectionFooter(width),
		}
		return strings.Join(lines, "\n")
	}

	data := loads(snap.Series)
	scale := ChartScale(float64(snap.CapacityKW), data)
	height := m.chartHeight()

	axis := RenderYAxis(height, snap.LimitKW, scale)
	chartWidth := width - 4 - lipgloss.Width(axis)
	if chartWidth < 1 {
		chartWidth = 1
	}
	chart := lipgloss.JoinHorizontal(lipgloss.Top, axis, RenderLoadChart(data, chartWidth, height, snap.LimitKW, scale))

	value := fmt.Sprintf("%d readings · limit %.0f kW", len(snap.Series), snap.LimitKW)
	lines := []string{SectionHeader(title, value, width)}
	for _, line := range strings.Split(chart, "\n") {
		lines = append(lines, SectionContentLine(line, width))
	}
	lines = append(lines, SectionFooter(width))

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"), "", m.renderMetricCards(snap))
}

// renderMetricCards renders Capacity, Current Load and Forecast.
func (m Model) renderMetricCards(snap session.Snapshot) string {
	load := LoadStyle(float64(snap.LatestKW), snap.LimitKW).Bold(true).
		Render(fmt.Sprintf("%d kW", snap.LatestKW))
	if snap.Overloaded {
		load += " " + AlertStyle.Render(grid.AlertSymbol)
	}

	cards := []string{
		metricCard("Capacity", ValueStyle.Render(fmt.Sprintf("%d kW", snap.CapacityKW))),
		metricCard("Current Load", load),
		metricCard(fmt.Sprintf("Forecast (%d-pt MA)", m.session.Options().ForecastWindow),
			ValueStyle.Render(fmt.Sprintf("%d kW", snap.ForecastKW))),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	return CardStyle.Render(LabelStyle.Render(label) + "\n" + value)
}

// alertLines renders the alert feed lines, most recent last.
func (m Model) alertLines(snap session.Snapshot) []string {
	if len(snap.Alerts) == 0 {
		return []string{MutedStyle.Render(NoAlertsText)}
	}
	lines := make([]string, 0, len(snap.Alerts))
	for _, a := range snap.Alerts {
		lines = append(lines, AlertStyle.Render(a.Message))
	}
	return lines
}

// renderAlerts renders the Alerts tab.
func (m Model) renderAlerts(snap session.Snapshot) string {
	title := LabelStyle.Render(fmt.Sprintf("Recent overloads (last %d of %d)", len(snap.Alerts), snap.AlertsTotal))
	if m.viewportReady {
		return title + "\n\n" + m.alertViewport.View()
	}
	return title + "\n\n" + strings.Join(m.alertLines(snap), "\n")
}

// renderFooter renders the keyboard help footer and the caption.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(keys.ShortHelp())) + "\n" +
		FooterStyle.Render(MutedStyle.Render(Caption))
}

// loads extracts the load values of a reading series.
func loads(series []grid.Reading) []float64 {
	out := make([]float64, len(series))
	for i, r := range series {
		out[i] = float64(r.LoadKW)
	}
	return out
}
