package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Caption is printed under the page.
const Caption = "Demo app – GreenGrid"

// NoAlertsText is shown in the alert feed before the first overload.
const NoAlertsText = "No overloads yet"

// Chart geometry in SVG user units.
const (
	chartWidth   = 720
	chartHeight  = 240
	chartPadLeft = 48
	chartPadTop  = 8
)

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// pageData feeds templates/index.html.
type pageData struct {
	Title       string
	Caption     string
	Substations []grid.Substation
	Selected    string
	Interval    int64
	Panel       panelData
}

// panelData feeds the "panel" template, which is also pushed over the
// websocket so the browser never renders anything itself.
type panelData struct {
	Snapshot       session.Snapshot
	ForecastWindow int
	NoAlertsText   string
	Chart          chartData
}

type chartData struct {
	Width      int
	Height     int
	PadLeft    int
	Points     string
	LastX      string
	LastY      string
	ThresholdY string
	ShowLimit  bool
	TopLabel   string
	LimitLabel string
}

// newPanelData derives the template data for one snapshot.
func newPanelData(snap session.Snapshot, forecastWindow int) panelData {
	return panelData{
		Snapshot:       snap,
		ForecastWindow: forecastWindow,
		NoAlertsText:   NoAlertsText,
		Chart:          newChartData(snap),
	}
}

// newChartData lays the series out as an SVG polyline scaled to
// [0, max(capacity, max load)], with the overload limit as a horizontal line.
func newChartData(snap session.Snapshot) chartData {
	c := chartData{Width: chartWidth, Height: chartHeight, PadLeft: chartPadLeft}
	if !snap.HasData {
		return c
	}

	scale := float64(snap.CapacityKW)
	for _, r := range snap.Series {
		if float64(r.LoadKW) > scale {
			scale = float64(r.LoadKW)
		}
	}
	if scale <= 0 {
		scale = 1
	}

	plotWidth := float64(chartWidth - chartPadLeft)
	plotHeight := float64(chartHeight - chartPadTop)
	y := func(v float64) float64 {
		return chartPadTop + plotHeight - v/scale*plotHeight
	}

	n := len(snap.Series)
	points := make([]string, n)
	var lastX, lastY float64
	for i, r := range snap.Series {
		x := float64(chartPadLeft) + plotWidth
		if n > 1 {
			x = float64(chartPadLeft) + float64(i)*plotWidth/float64(n-1)
		}
		lastX, lastY = x, y(float64(r.LoadKW))
		points[i] = fmt.Sprintf("%.1f,%.1f", lastX, lastY)
	}

	c.Points = strings.Join(points, " ")
	c.LastX = fmt.Sprintf("%.1f", lastX)
	c.LastY = fmt.Sprintf("%.1f", lastY)
	c.TopLabel = fmt.Sprintf("%.0f", scale)
	if snap.LimitKW > 0 && snap.LimitKW <= scale {
		c.ShowLimit = true
		c.ThresholdY = fmt.Sprintf("%.1f", y(snap.LimitKW))
		c.LimitLabel = fmt.Sprintf("%.0f", snap.LimitKW)
	}
	return c
}

// renderPanel renders the chart, metrics and alert feed fragment.
func renderPanel(p panelData) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "panel", p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
