package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/greengrid/internal/config"
	"github.com/rileyhilliard/greengrid/internal/errors"
)

// SimulationFlags holds the flags shared by dashboard, serve and simulate.
type SimulationFlags struct {
	Interval string
	Seed     uint64
}

// AddSimulationFlags registers --interval and --seed on a command.
func AddSimulationFlags(cmd *cobra.Command, flags *SimulationFlags) {
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "time between readings (e.g., 2s, 500ms); default from config")
	cmd.Flags().Uint64Var(&flags.Seed, "seed", 0, "seed for reproducible capacities and readings; default from config")
}

// Apply overrides cfg with the flags that were set on cmd.
func (f SimulationFlags) Apply(cmd *cobra.Command, cfg *config.Config) error {
	if f.Interval != "" {
		interval, err := ParseInterval(f.Interval)
		if err != nil {
			return err
		}
		cfg.Dashboard.Interval = interval
	}
	if cmd.Flags().Changed("seed") {
		cfg.Grid.Seed = f.Seed
	}
	return nil
}

// ParseInterval parses a refresh interval and enforces the minimum.
func ParseInterval(flag string) (time.Duration, error) {
	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 2s, 500ms, or 1m.")
	}
	if d < config.MinInterval {
		return 0, errors.New(errors.ErrConfig,
			"Interval too short",
			fmt.Sprintf("Minimum interval is %s.", config.MinInterval))
	}
	return d, nil
}
