package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Non-interactive: cells are already styled, so the cursor row gets no
	// extra padding or colour
	s.Selected = lipgloss.NewStyle()

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI), producing a simple formatted table.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// ReadingRow is one line of the simulate output.
type ReadingRow struct {
	Time       string // HH:MM:SS
	Substation string
	LoadKW     int
	CapacityKW int
	Overload   bool
}

// readingColumns are the columns of RenderReadingsTable.
var readingColumns = []TableColumn{
	{Title: "TIME", Width: 10},
	{Title: "SUBSTATION", Width: 12},
	{Title: "LOAD kW", Width: 9},
	{Title: "CAPACITY kW", Width: 12},
	{Title: "STATUS", Width: 12},
}

// RenderReadingsTable renders the readings produced by a simulation run.
func RenderReadingsTable(rows []ReadingRow) string {
	if len(rows) == 0 {
		return MutedStyle().Render("No readings")
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		status := SymbolReading + " ok"
		if r.Overload {
			status = SymbolWarning + " overload"
		}
		cells[i] = []string{
			r.Time,
			r.Substation,
			strconv.Itoa(r.LoadKW),
			strconv.Itoa(r.CapacityKW),
			status,
		}
	}
	return RenderSimpleTable(readingColumns, cells)
}

// SubstationRow summarizes one substation after a simulation run.
type SubstationRow struct {
	Substation string
	CapacityKW int
	LimitKW    float64
	Readings   int
	Alerts     int
	LatestKW   int
	ForecastKW int
	Loads      []float64
}

// RenderSubstationTable renders per-substation totals with a load sparkline.
// Substations without readings are shown with a pending marker.
func RenderSubstationTable(rows []SubstationRow, sparkWidth int) string {
	if len(rows) == 0 {
		return ""
	}

	mutedStyle := MutedStyle()
	alertStyle := ErrorStyle()

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var output string
	output += headerStyle.Render(fmt.Sprintf("  %-10s %9s %9s %9s %8s %6s  %s",
		"SUBSTATION", "CAPACITY", "LATEST", "FORECAST", "READINGS", "ALERTS", "TREND")) + "\n"

	for _, r := range rows {
		if r.Readings == 0 {
			output += fmt.Sprintf("  %-10s %9d %9s %9s %8d %6d  %s\n",
				r.Substation, r.CapacityKW, "-", "-", 0, 0, mutedStyle.Render(SymbolPending))
			continue
		}

		alerts := strconv.Itoa(r.Alerts)
		if r.Alerts > 0 {
			alerts = alertStyle.Render(fmt.Sprintf("%6d", r.Alerts))
		} else {
			alerts = fmt.Sprintf("%6s", alerts)
		}

		output += fmt.Sprintf("  %-10s %9d %9d %9d %8d %s  %s\n",
			r.Substation, r.CapacityKW, r.LatestKW, r.ForecastKW, r.Readings, alerts,
			RenderSparkline(r.Loads, sparkWidth, r.LimitKW))
	}

	return output
}
