package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/greengrid/internal/errors"
)

// Command-specific flags
var (
	dashboardFlags      SimulationFlags
	dashboardSubstation string
	serveFlags          SimulationFlags
	serveAddr           string
	simulateFlags       SimulationFlags
	simulateOpts        SimulateOptions
	initForce           bool
	initNonInteractive  bool
)

// dashboardCmd starts the terminal dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live terminal dashboard",
	Long: `Start the interactive terminal dashboard.

A new reading is simulated every interval. The selected substation's load
is charted against its overload threshold, with a moving-average forecast
and a feed of recent overload alerts.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           New reading now
  p           Pause / resume
  up/k        Select previous substation
  down/j      Select next substation
  Tab / 1 / 2 Switch between Live Charts and Alerts
  ?           Show help

Examples:
  greengrid dashboard
  greengrid dashboard --interval 1s --substation S03
  greengrid dashboard --seed 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd, dashboardFlags, dashboardSubstation)
	},
}

// serveCmd starts the browser dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser dashboard",
	Long: `Serve the GreenGrid dashboard over HTTP.

Every browser gets its own isolated simulation, kept alive by a session
cookie and dropped after server.session_ttl of inactivity. Prometheus
metrics are exposed on /metrics.

Examples:
  greengrid serve
  greengrid serve --addr 127.0.0.1:9000 --interval 1s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(cmd, serveFlags, serveAddr)
	},
}

// simulateCmd runs the simulation headless
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run refresh events and print the results",
	Long: `Run the simulation without a dashboard and print what it produced:
the readings, a per-substation summary with forecasts and the overload alerts.

Examples:
  greengrid simulate
  greengrid simulate --ticks 200 --seed 7
  greengrid simulate --substation S02 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		machineMode = simulateOpts.JSON
		return simulateCommand(cmd, simulateFlags, simulateOpts)
	},
}

// initCmd creates a new .greengrid.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .greengrid.yaml configuration",
	Long: `Write a .greengrid.yaml with the default settings to the current directory.

When run in a terminal, prompts for the refresh interval and the web
dashboard address.

Examples:
  greengrid init
  greengrid init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
			Out:            cmd.OutOrStdout(),
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for greengrid.

Examples:
  # Bash
  greengrid completion bash > /etc/bash_completion.d/greengrid

  # Zsh
  greengrid completion zsh > "${fpath[1]}/_greengrid"

  # Fish
  greengrid completion fish > ~/.config/fish/completions/greengrid.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// dashboard command flags
	AddSimulationFlags(dashboardCmd, &dashboardFlags)
	dashboardCmd.Flags().StringVar(&dashboardSubstation, "substation", "", "initially selected substation (e.g., S03)")

	// serve command flags
	AddSimulationFlags(serveCmd, &serveFlags)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8501)")

	// simulate command flags
	AddSimulationFlags(simulateCmd, &simulateFlags)
	simulateCmd.Flags().IntVarP(&simulateOpts.Ticks, "ticks", "n", 50, "number of refresh events to run")
	simulateCmd.Flags().StringVar(&simulateOpts.Substation, "substation", "", "only show readings for this substation")
	simulateCmd.Flags().BoolVar(&simulateOpts.JSON, "json", false, "print the result as JSON")

	// init command flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "write defaults without prompting")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
