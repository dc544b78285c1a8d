package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/greengrid/internal/logger"
	"github.com/rileyhilliard/greengrid/internal/ui"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd is the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "greengrid",
	Short: "GreenGrid - simulated substation load dashboard",
	Long: `GreenGrid simulates electrical substation load readings, charts them live,
forecasts the next reading with a moving average and raises overload alerts
when a substation crosses its threshold.

Two dashboards share the same simulation:
  greengrid dashboard   interactive terminal dashboard
  greengrid serve       browser dashboard on http://localhost:8501

Examples:
  greengrid dashboard --interval 1s
  greengrid serve --addr :9000
  greengrid simulate --ticks 100 --seed 7`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetVerbose(true)
		}
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.SuggestionsMinimumDistance = 2
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .greengrid.yaml, then ~/.config/greengrid/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if MachineMode() {
			_ = WriteJSONFromError(os.Stdout, err)
			os.Exit(1)
		}

		// Cobra's message already carries "Did you mean this?" suggestions
		fmt.Fprintln(os.Stderr, err)
		if isUnknownCommandError(err) {
			fmt.Fprintln(os.Stderr, "Run 'greengrid --help' for usage.")
		}
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
