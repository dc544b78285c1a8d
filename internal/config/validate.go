package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/greengrid/internal/errors"
)

const (
	// MaxSubstations keeps ids at two digits (S01..S99).
	MaxSubstations = 99
	// MinInterval is the fastest refresh the dashboards accept.
	MinInterval = 100 * time.Millisecond
	// MinSessionTTL is the shortest idle lifetime for a browser session.
	MinSessionTTL = time.Minute
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but greengrid only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade greengrid or lower the version in .greengrid.yaml.")
	}

	if err := validateGrid(cfg.Grid); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'grid' section in your .greengrid.yaml.")
	}

	if err := validateSession(cfg.Session); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'session' section in your .greengrid.yaml.")
	}

	if err := validateDashboard(cfg.Dashboard); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'dashboard' section in your .greengrid.yaml.")
	}

	if err := validateServer(cfg.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'server' section in your .greengrid.yaml.")
	}

	return nil
}

func validateGrid(g GridConfig) error {
	if g.Substations < 1 || g.Substations > MaxSubstations {
		return fmt.Errorf("grid.substations needs to be 1-%d (got %d)", MaxSubstations, g.Substations)
	}
	if g.CapacityMin <= 0 {
		return fmt.Errorf("grid.capacity_min needs to be positive (got %d)", g.CapacityMin)
	}
	if g.CapacityMax <= g.CapacityMin {
		return fmt.Errorf("grid.capacity_max (%d) needs to be above capacity_min (%d)", g.CapacityMax, g.CapacityMin)
	}
	if g.LoadStdDev < 0 {
		return fmt.Errorf("grid.load_stddev can't be negative (got %g)", g.LoadStdDev)
	}
	if g.LoadFloor < 0 {
		return fmt.Errorf("grid.load_floor can't be negative (got %d)", g.LoadFloor)
	}
	if g.Threshold <= 0 || g.Threshold > 1 {
		return fmt.Errorf("grid.threshold is a fraction of capacity and needs to be in (0, 1] (got %g)", g.Threshold)
	}
	return nil
}

func validateSession(s SessionConfig) error {
	if s.MaxReadings < 1 {
		return fmt.Errorf("session.max_readings needs to be at least 1 (got %d)", s.MaxReadings)
	}
	if s.AlertDisplay < 1 {
		return fmt.Errorf("session.alert_display needs to be at least 1 (got %d)", s.AlertDisplay)
	}
	if s.ForecastWindow < 1 {
		return fmt.Errorf("session.forecast_window needs to be at least 1 (got %d)", s.ForecastWindow)
	}
	return nil
}

func validateDashboard(d DashboardConfig) error {
	if d.Interval < MinInterval {
		return fmt.Errorf("dashboard.interval %v is too fast - use %v or more", d.Interval, MinInterval)
	}
	return nil
}

func validateServer(s ServerConfig) error {
	if strings.TrimSpace(s.Addr) == "" {
		return fmt.Errorf("server.addr is empty - try ':8501'")
	}
	if s.SessionTTL < MinSessionTTL {
		return fmt.Errorf("server.session_ttl %v is too short - use %v or more", s.SessionTTL, MinSessionTTL)
	}
	return nil
}
