package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/greengrid/internal/errors"
	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/session"
	"github.com/rileyhilliard/greengrid/internal/ui"
)

// SimulateOptions configures a headless run.
type SimulateOptions struct {
	Ticks      int
	Substation string
	JSON       bool
	// Start is the time of the first reading. Zero means now.
	Start time.Time
}

// SimulationResult is what a headless run produced. It is also the JSON
// payload of `greengrid simulate --json`.
type SimulationResult struct {
	Ticks       int                `json:"ticks"`
	Interval    string             `json:"interval"`
	Seed        uint64             `json:"seed"`
	Substations []grid.Substation  `json:"substations"`
	Readings    []grid.Reading     `json:"readings"`
	Alerts      []grid.Alert       `json:"alerts"`
	Snapshots   []session.Snapshot `json:"snapshots"`
}

// simulateCommand runs the simulation and prints it.
func simulateCommand(cmd *cobra.Command, flags SimulationFlags, opts SimulateOptions) error {
	a, err := loadApp(cmd, flags)
	if err != nil {
		return err
	}

	res, err := runSimulation(a, opts)
	if err != nil {
		return err
	}

	if opts.JSON {
		return WriteJSONSuccess(cmd.OutOrStdout(), res)
	}
	renderSimulation(cmd.OutOrStdout(), a, res)
	return nil
}

// runSimulation performs opts.Ticks refresh events on a fresh session. The
// clock advances by the configured interval per tick.
func runSimulation(a *app, opts SimulateOptions) (SimulationResult, error) {
	if opts.Ticks < 1 {
		return SimulationResult{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("--ticks must be at least 1, got %d", opts.Ticks),
			"Pass a positive number of refresh events, e.g. --ticks 50.")
	}
	id, err := a.checkSubstation(opts.Substation)
	if err != nil {
		return SimulationResult{}, err
	}

	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	interval := a.cfg.Dashboard.Interval

	sess := a.newSession()
	for i := 0; i < opts.Ticks; i++ {
		sess.Tick(start.Add(time.Duration(i) * interval))
	}

	res := SimulationResult{
		Ticks:       opts.Ticks,
		Interval:    interval.String(),
		Seed:        a.cfg.Grid.Seed,
		Substations: a.registry.Substations(),
		Readings:    sess.Readings(),
		Alerts:      sess.RecentAlerts(sess.AlertCount()),
	}

	ids := a.registry.IDs()
	if id != "" {
		ids = []string{id}
		res.Readings = sess.ReadingsFor(id)
		res.Alerts = alertsFor(res.Alerts, id)
	}
	for _, sid := range ids {
		res.Snapshots = append(res.Snapshots, sess.Snapshot(sid))
	}

	if res.Readings == nil {
		res.Readings = []grid.Reading{}
	}
	if res.Alerts == nil {
		res.Alerts = []grid.Alert{}
	}
	return res, nil
}

func alertsFor(alerts []grid.Alert, id string) []grid.Alert {
	var out []grid.Alert
	for _, al := range alerts {
		if al.Substation == id {
			out = append(out, al)
		}
	}
	return out
}

// renderSimulation prints the human-readable report.
func renderSimulation(w io.Writer, a *app, res SimulationResult) {
	ui.PrintHeader(w, ui.HeaderInfo{
		Title:   a.cfg.Dashboard.Title,
		Tagline: fmt.Sprintf("%d refresh events, one every %s", res.Ticks, res.Interval),
	})

	rows := make([]ui.ReadingRow, len(res.Readings))
	for i, r := range res.Readings {
		capacity, _ := a.registry.Capacity(r.Substation)
		rows[i] = ui.ReadingRow{
			Time:       r.Clock(),
			Substation: r.Substation,
			LoadKW:     r.LoadKW,
			CapacityKW: capacity,
			Overload:   a.evaluator.IsOverload(r),
		}
	}
	fmt.Fprintln(w, ui.RenderReadingsTable(rows))
	fmt.Fprintln(w)

	summary := make([]ui.SubstationRow, len(res.Snapshots))
	for i, snap := range res.Snapshots {
		loads := make([]float64, len(snap.Series))
		for j, r := range snap.Series {
			loads[j] = float64(r.LoadKW)
		}
		summary[i] = ui.SubstationRow{
			Substation: snap.Substation,
			CapacityKW: snap.CapacityKW,
			LimitKW:    snap.LimitKW,
			Readings:   len(snap.Series),
			Alerts:     len(alertsFor(res.Alerts, snap.Substation)),
			LatestKW:   snap.LatestKW,
			ForecastKW: snap.ForecastKW,
			Loads:      loads,
		}
	}
	fmt.Fprint(w, ui.RenderSubstationTable(summary, 20))
	fmt.Fprintln(w)

	messages := make([]string, len(res.Alerts))
	for i, al := range res.Alerts {
		messages[i] = al.Message
	}
	fmt.Fprint(w, ui.RenderSummary(ui.SimulationSummary{
		Readings: len(res.Readings),
		Alerts:   messages,
		Shown:    a.cfg.Session.AlertDisplay,
	}))
}
