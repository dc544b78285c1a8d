package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimulationSummary holds the totals of a simulation run.
type SimulationSummary struct {
	Readings int
	Alerts   []string // alert messages, oldest first
	Shown    int      // how many of the most recent alerts to list; 0 lists all
}

// SummaryRenderer formats simulation summaries for terminal display.
type SummaryRenderer struct {
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewSummaryRenderer creates a new summary renderer with default styles.
func NewSummaryRenderer() *SummaryRenderer {
	return &SummaryRenderer{
		errorStyle:   ErrorStyle(),
		successStyle: SuccessStyle(),
		mutedStyle:   MutedStyle(),
	}
}

// RenderSummary generates the closing summary of a simulation run.
func RenderSummary(summary SimulationSummary) string {
	return NewSummaryRenderer().Render(summary)
}

// Render generates the formatted summary string.
func (r *SummaryRenderer) Render(summary SimulationSummary) string {
	readingWord := plural(summary.Readings, "reading", "readings")

	if len(summary.Alerts) == 0 {
		return r.successStyle.Render(fmt.Sprintf("%s %d %s, no overloads", SymbolSuccess, summary.Readings, readingWord)) + "\n"
	}

	var sb strings.Builder
	count := len(summary.Alerts)
	sb.WriteString(r.errorStyle.Render(fmt.Sprintf("%s %d %s in %d %s",
		SymbolWarning, count, plural(count, "overload", "overloads"), summary.Readings, readingWord)))
	sb.WriteString("\n")

	alerts := summary.Alerts
	if summary.Shown > 0 && len(alerts) > summary.Shown {
		sb.WriteString(r.mutedStyle.Render(fmt.Sprintf("  (last %d of %d)", summary.Shown, count)))
		sb.WriteString("\n")
		alerts = alerts[len(alerts)-summary.Shown:]
	}
	for _, msg := range alerts {
		sb.WriteString("  ")
		sb.WriteString(r.errorStyle.Render(msg))
		sb.WriteString("\n")
	}

	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
