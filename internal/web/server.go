// Package web serves the browser flavour of the GreenGrid dashboard.
//
// Each browser gets its own session.Session, keyed by a cookie and held by a
// Manager. Pages are rendered on the server with html/template; a websocket
// per open page ticks the session at the configured interval and pushes the
// re-rendered panel after every reading.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rileyhilliard/greengrid/internal/errors"
	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/logger"
	"github.com/rileyhilliard/greengrid/internal/metrics"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8501"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr                string
	Title               string
	Interval            time.Duration
	ForecastWindow      int
	Threshold           float64
	SampleOnInteraction bool
	// AccessLog receives one line per request. Nil means stderr.
	AccessLog io.Writer
	// Now overrides the clock used for readings.
	Now func() time.Time
}

// Server is the browser dashboard.
type Server struct {
	opts     Options
	registry *grid.Registry
	manager  *Manager
	metrics  *metrics.Metrics
	log      logger.Logger
}

// New creates a server over manager. Every session the manager creates
// must draw from registry.
func New(registry *grid.Registry, manager *Manager, m *metrics.Metrics, log logger.Logger, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Title == "" {
		opts.Title = "GreenGrid"
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.ForecastWindow <= 0 {
		opts.ForecastWindow = grid.DefaultForecastWindow
	}
	if opts.Threshold <= 0 {
		opts.Threshold = grid.DefaultThreshold
	}
	if opts.AccessLog == nil {
		opts.AccessLog = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Noop()
	}

	return &Server{
		opts:     opts,
		registry: registry,
		manager:  manager,
		metrics:  m,
		log:      log,
	}
}

// Router returns the routes without access logging or panic recovery.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/", s.instrument("/", s.handleIndex)).Methods(http.MethodGet)
	r.Handle("/health", s.instrument("/health", s.handleHealth)).Methods(http.MethodGet)
	r.Handle("/ws", s.instrument("/ws", s.handleStream)).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	// API routes use full paths on the root router. A PathPrefix subrouter
	// would turn a wrong method into a 404 instead of a 405.
	r.Handle("/api/substations", s.instrument("/api/substations", s.handleSubstations)).Methods(http.MethodGet)
	r.Handle("/api/snapshot", s.instrument("/api/snapshot", s.handleSnapshot)).Methods(http.MethodGet)
	r.Handle("/api/alerts", s.instrument("/api/alerts", s.handleAlerts)).Methods(http.MethodGet)
	r.Handle("/api/tick", s.instrument("/api/tick", s.handleTick)).Methods(http.MethodPost)
	r.Handle("/api/reset", s.instrument("/api/reset", s.handleReset)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// Handler returns the full handler: routes wrapped with panic recovery and
// an access log in Apache common log format.
func (s *Server) Handler() http.Handler {
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(logger.DebugEnabled()))(s.Router())
	return handlers.LoggingHandler(s.opts.AccessLog, recovered)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return s.metrics.WrapHandler(route, h)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// The idle-session janitor runs for the lifetime of the server.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go s.manager.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("GreenGrid dashboard listening on %s", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.WrapWithCode(err, errors.ErrServer,
				"Cannot start the web dashboard on "+s.opts.Addr,
				"Pick another address with --addr, or stop whatever is using the port")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapWithCode(err, errors.ErrServer, "Web dashboard did not shut down cleanly", "")
	}
	return nil
}
