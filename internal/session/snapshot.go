package session

import (
	"github.com/rileyhilliard/greengrid/internal/grid"
)

// Snapshot is the read-only view of a session for one selected substation.
// Every presentation surface renders from a Snapshot and never mutates the
// session while doing so.
type Snapshot struct {
	Substation  string         `json:"substation"`
	CapacityKW  int            `json:"capacity_kw"`
	LimitKW     float64        `json:"limit_kw"`
	HasData     bool           `json:"has_data"`
	Series      []grid.Reading `json:"series"`
	LatestKW    int            `json:"latest_kw,omitempty"`
	ForecastKW  int            `json:"forecast_kw,omitempty"`
	Overloaded  bool           `json:"overloaded"`
	Alerts      []grid.Alert   `json:"alerts"`
	Readings    int            `json:"readings"`
	AlertsTotal int            `json:"alerts_total"`
}

// Snapshot derives the view for substation id. When the substation has no
// readings yet, HasData is false and the chart and metric fields are zero.
func (s *Session) Snapshot(id string) Snapshot {
	snap := Snapshot{
		Substation:  id,
		Alerts:      s.RecentAlerts(s.opts.AlertDisplay),
		Readings:    s.readings.len(),
		AlertsTotal: len(s.alerts),
	}
	if snap.Alerts == nil {
		snap.Alerts = []grid.Alert{}
	}

	if c, ok := s.Registry().Capacity(id); ok {
		snap.CapacityKW = c
	}
	if limit, ok := s.evaluator.LimitKW(id); ok {
		snap.LimitKW = limit
	}

	series := s.ReadingsFor(id)
	if len(series) == 0 {
		snap.Series = []grid.Reading{}
		return snap
	}

	latest := series[len(series)-1]
	forecast, _ := grid.Forecast(series, s.opts.ForecastWindow)

	snap.HasData = true
	snap.Series = series
	snap.LatestKW = latest.LoadKW
	snap.ForecastKW = forecast
	snap.Overloaded = s.evaluator.IsOverload(latest)
	return snap
}
