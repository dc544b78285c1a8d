package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/greengrid/internal/dashboard"
	"github.com/rileyhilliard/greengrid/internal/errors"
	"github.com/rileyhilliard/greengrid/internal/logger"
	"github.com/rileyhilliard/greengrid/internal/session"
)

// dashboardCommand runs the terminal dashboard until the user quits.
func dashboardCommand(cmd *cobra.Command, flags SimulationFlags, substation string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrUI,
			"The dashboard needs an interactive terminal",
			"Run 'greengrid simulate' for plain output, or 'greengrid serve' for the browser dashboard.")
	}

	a, err := loadApp(cmd, flags)
	if err != nil {
		return err
	}
	id, err := a.checkSubstation(substation)
	if err != nil {
		return err
	}

	// Logging to stderr would tear the alt screen
	sess := a.newSession(session.WithLogger(logger.Noop()))

	model := dashboard.NewModel(sess, dashboard.Options{
		Title:               a.cfg.Dashboard.Title,
		Interval:            a.cfg.Dashboard.Interval,
		Substation:          id,
		SampleOnInteraction: a.cfg.Dashboard.SampleOnInteraction,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrUI,
			"Dashboard stopped unexpectedly",
			"Try a larger terminal window, or 'greengrid simulate' for plain output.")
	}
	return nil
}
