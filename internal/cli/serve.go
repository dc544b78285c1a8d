package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/greengrid/internal/logger"
	"github.com/rileyhilliard/greengrid/internal/metrics"
	"github.com/rileyhilliard/greengrid/internal/session"
	"github.com/rileyhilliard/greengrid/internal/ui"
	"github.com/rileyhilliard/greengrid/internal/web"
)

// serveCommand runs the browser dashboard until interrupted.
func serveCommand(cmd *cobra.Command, flags SimulationFlags, addr string) error {
	a, err := loadApp(cmd, flags)
	if err != nil {
		return err
	}
	if addr != "" {
		a.cfg.Server.Addr = addr
	}

	srv := newWebServer(a, metrics.New())

	ui.PrintHeader(cmd.OutOrStdout(), ui.HeaderInfo{
		Title:   a.cfg.Dashboard.Title,
		Version: formatVersion(version),
		Tagline: fmt.Sprintf("%d substations, a reading every %s", a.registry.Len(), a.cfg.Dashboard.Interval),
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Open %s in your browser. Press Ctrl+C to stop.\n\n", browseURL(a.cfg.Server.Addr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}

// newWebServer wires one web.Server to a: sessions are drawn from a's
// registry and report to m.
func newWebServer(a *app, m *metrics.Metrics) *web.Server {
	sessionLog := logger.NewStderr("[session]")
	webLog := logger.NewStderr("[web]")

	factory := web.NewSessionFactory(a.registry, a.model, a.evaluator, a.cfg.Session.Options(),
		a.seeds.Uint64(), session.WithObserver(m), session.WithLogger(sessionLog))

	manager := web.NewManager(factory, a.cfg.Server.SessionTTL,
		web.WithManagerLogger(webLog),
		web.WithActiveSessions(m))

	return web.New(a.registry, manager, m, webLog, web.Options{
		Addr:                a.cfg.Server.Addr,
		Title:               a.cfg.Dashboard.Title,
		Interval:            a.cfg.Dashboard.Interval,
		ForecastWindow:      a.cfg.Session.ForecastWindow,
		Threshold:           a.cfg.Grid.Threshold,
		SampleOnInteraction: a.cfg.Dashboard.SampleOnInteraction,
	})
}

// browseURL turns a listen address into a clickable URL.
func browseURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
