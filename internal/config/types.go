package config

import (
	"time"

	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/session"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .greengrid.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Grid      GridConfig      `yaml:"grid" mapstructure:"grid"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
}

// GridConfig describes the simulated substation network.
type GridConfig struct {
	// Substations is how many substations exist (ids S01..Snn).
	Substations int `yaml:"substations" mapstructure:"substations"`

	// CapacityMin and CapacityMax bound the uniform capacity draw, in kW.
	// CapacityMax is exclusive.
	CapacityMin int `yaml:"capacity_min" mapstructure:"capacity_min"`
	CapacityMax int `yaml:"capacity_max" mapstructure:"capacity_max"`

	// LoadMean and LoadStdDev parameterize the normal load distribution.
	LoadMean   float64 `yaml:"load_mean" mapstructure:"load_mean"`
	LoadStdDev float64 `yaml:"load_stddev" mapstructure:"load_stddev"`

	// LoadFloor is the minimum load a reading can report.
	LoadFloor int `yaml:"load_floor" mapstructure:"load_floor"`

	// Threshold is the fraction of capacity at which an alert fires.
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`

	// Seed makes capacities and readings reproducible. 0 picks a random seed.
	Seed uint64 `yaml:"seed" mapstructure:"seed"`
}

// SessionConfig controls per-session retention.
type SessionConfig struct {
	MaxReadings    int `yaml:"max_readings" mapstructure:"max_readings"`
	AlertDisplay   int `yaml:"alert_display" mapstructure:"alert_display"`
	ForecastWindow int `yaml:"forecast_window" mapstructure:"forecast_window"`
}

// DashboardConfig controls the refresh loop shared by both dashboards.
type DashboardConfig struct {
	Title string `yaml:"title" mapstructure:"title"`

	// Interval is the time between simulated readings.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// SampleOnInteraction also draws a reading whenever the selected
	// substation changes, like a page that re-runs on every widget change.
	SampleOnInteraction bool `yaml:"sample_on_interaction" mapstructure:"sample_on_interaction"`
}

// ServerConfig controls the browser dashboard.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`

	// SessionTTL is how long an idle browser session is kept.
	SessionTTL time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Grid: GridConfig{
			Substations: grid.DefaultSubstations,
			CapacityMin: grid.DefaultCapacityMin,
			CapacityMax: grid.DefaultCapacityMax,
			LoadMean:    grid.DefaultLoadMean,
			LoadStdDev:  grid.DefaultLoadStdDev,
			LoadFloor:   grid.DefaultLoadFloor,
			Threshold:   grid.DefaultThreshold,
		},
		Session: SessionConfig{
			MaxReadings:    session.DefaultMaxReadings,
			AlertDisplay:   session.DefaultAlertDisplay,
			ForecastWindow: grid.DefaultForecastWindow,
		},
		Dashboard: DashboardConfig{
			Title:    "GreenGrid",
			Interval: 2 * time.Second,
		},
		Server: ServerConfig{
			Addr:       ":8501",
			SessionTTL: 30 * time.Minute,
		},
	}
}

// LoadModel converts the grid settings for the generator.
func (g GridConfig) LoadModel() grid.LoadModel {
	return grid.LoadModel{
		Mean:   g.LoadMean,
		StdDev: g.LoadStdDev,
		Floor:  g.LoadFloor,
	}
}

// Options converts the session settings.
func (s SessionConfig) Options() session.Options {
	return session.Options{
		MaxReadings:    s.MaxReadings,
		AlertDisplay:   s.AlertDisplay,
		ForecastWindow: s.ForecastWindow,
	}
}
