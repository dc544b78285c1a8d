package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rileyhilliard/greengrid/internal/config"
	"github.com/rileyhilliard/greengrid/internal/errors"
	"github.com/rileyhilliard/greengrid/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string    // Config path; default ./.greengrid.yaml
	Overwrite      bool      // Overwrite existing config without asking
	NonInteractive bool      // Skip prompts, use defaults
	Out            io.Writer // Where to report; default stdout
}

// Init writes a new .greengrid.yaml with the default settings, optionally
// adjusted through interactive prompts.
func Init(opts InitOptions) error {
	if opts.Path == "" {
		opts.Path = filepath.Join(".", config.ConfigFileName)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	interactive := !opts.NonInteractive && term.IsTerminal(int(os.Stdin.Fd()))

	overwrite, proceed, err := checkExistingConfig(opts.Path, opts.Overwrite, interactive)
	if err != nil || !proceed {
		if err == nil {
			fmt.Fprintln(opts.Out, "Cancelled.")
		}
		return err
	}

	cfg := config.DefaultConfig()
	if interactive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Write(opts.Path, cfg, overwrite); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't write %s", opts.Path),
			"Check that the directory is writable.")
	}

	fmt.Fprintf(opts.Out, "%s Created %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), opts.Path)
	fmt.Fprintln(opts.Out, ui.MutedStyle().Render("  Start the dashboard with 'greengrid dashboard' or 'greengrid serve'."))
	return nil
}

// checkExistingConfig decides what to do when path already exists. It
// returns whether to overwrite and whether to proceed at all.
func checkExistingConfig(path string, overwrite, interactive bool) (bool, bool, error) {
	if _, err := os.Stat(path); stderrors.Is(err, os.ErrNotExist) {
		return false, true, nil
	}
	if overwrite {
		return true, true, nil
	}

	if !interactive {
		return false, false, errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", path),
			"Use --force to overwrite")
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return false, false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Try running with --force to overwrite")
	}
	return confirm, confirm, nil
}

// promptConfig asks for the settings people most often change.
func promptConfig(cfg *config.Config) error {
	interval := cfg.Dashboard.Interval.String()
	addr := cfg.Server.Addr
	title := cfg.Dashboard.Title

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard title").
				Placeholder("GreenGrid").
				Value(&title),
			huh.NewInput().
				Title("Refresh interval").
				Description("Time between simulated readings").
				Placeholder("2s").
				Value(&interval).
				Validate(validateIntervalInput),
			huh.NewInput().
				Title("Web dashboard address").
				Description("Listen address for 'greengrid serve'").
				Placeholder(":8501").
				Value(&addr).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("address is required")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}

	return applyPromptValues(cfg, title, interval, addr)
}

func validateIntervalInput(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use a duration like 2s or 500ms")
	}
	if d < config.MinInterval {
		return fmt.Errorf("minimum is %s", config.MinInterval)
	}
	return nil
}

// applyPromptValues copies the answers into cfg.
func applyPromptValues(cfg *config.Config, title, interval, addr string) error {
	if err := validateIntervalInput(interval); err != nil {
		return errors.New(errors.ErrConfig, "Invalid refresh interval: "+interval, err.Error())
	}
	d, _ := time.ParseDuration(strings.TrimSpace(interval))

	if t := strings.TrimSpace(title); t != "" {
		cfg.Dashboard.Title = t
	}
	cfg.Dashboard.Interval = d
	cfg.Server.Addr = strings.TrimSpace(addr)
	return config.Validate(cfg)
}
