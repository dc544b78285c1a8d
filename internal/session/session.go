// Package session holds the state owned by one interactive dashboard session:
// the capped reading log, the alert log, and the refresh-event handler that
// ties the grid generator and evaluator together.
//
// A Session is not safe for concurrent use. The terminal dashboard only
// touches it from its update loop; the web server guards each session with
// its own lock.
package session

import (
	"time"

	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/logger"
)

// Defaults for session retention and display.
const (
	DefaultMaxReadings  = 200
	DefaultAlertDisplay = 10
)

// Options controls retention and derived values.
type Options struct {
	// MaxReadings caps the reading log; the oldest readings are evicted first.
	MaxReadings int
	// AlertDisplay is how many alerts a snapshot carries.
	AlertDisplay int
	// ForecastWindow is the number of trailing readings averaged.
	ForecastWindow int
}

// DefaultOptions returns the stock retention settings.
func DefaultOptions() Options {
	return Options{
		MaxReadings:    DefaultMaxReadings,
		AlertDisplay:   DefaultAlertDisplay,
		ForecastWindow: grid.DefaultForecastWindow,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxReadings <= 0 {
		o.MaxReadings = d.MaxReadings
	}
	if o.AlertDisplay <= 0 {
		o.AlertDisplay = d.AlertDisplay
	}
	if o.ForecastWindow <= 0 {
		o.ForecastWindow = d.ForecastWindow
	}
	return o
}

// Observer is notified of every reading and alert a session produces.
type Observer interface {
	ObserveReading(r grid.Reading)
	ObserveAlert(a grid.Alert)
}

// Option configures a Session.
type Option func(*Session)

// WithObserver attaches an observer, e.g. the Prometheus collectors.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// Session is the reading log and alert log of one dashboard.
type Session struct {
	generator *grid.Generator
	evaluator *grid.Evaluator
	opts      Options

	readings *ring[grid.Reading]
	alerts   []grid.Alert

	observer Observer
	log      logger.Logger
}

// TickResult is what a single refresh event produced.
type TickResult struct {
	Reading grid.Reading `json:"reading"`
	Alert   *grid.Alert  `json:"alert,omitempty"`
}

// New creates an empty session. The generator is owned by the session.
func New(gen *grid.Generator, eval *grid.Evaluator, opts Options, options ...Option) *Session {
	opts = opts.withDefaults()
	s := &Session{
		generator: gen,
		evaluator: eval,
		opts:      opts,
		readings:  newRing[grid.Reading](opts.MaxReadings),
		log:       logger.Noop(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Registry returns the substation registry this session draws from.
func (s *Session) Registry() *grid.Registry {
	return s.generator.Registry()
}

// Options returns the effective options.
func (s *Session) Options() Options {
	return s.opts
}

// Tick handles one refresh event: it draws a reading, appends it, and
// records an alert when the reading is an overload.
func (s *Session) Tick(now time.Time) TickResult {
	r := s.generator.Next(now)
	s.AppendReading(r)

	res := TickResult{Reading: r}
	if a, ok := s.evaluator.Evaluate(r); ok {
		s.AppendAlert(a)
		res.Alert = &a
		s.log.Debug("overload %s load=%d capacity=%d", a.Substation, a.LoadKW, a.CapacityKW)
	}
	return res
}

// AppendReading adds r to the log, evicting the oldest reading past the cap.
func (s *Session) AppendReading(r grid.Reading) {
	s.readings.push(r)
	if s.observer != nil {
		s.observer.ObserveReading(r)
	}
}

// AppendAlert adds a to the alert log. The log is append-only; trimming only
// happens when alerts are read for display.
func (s *Session) AppendAlert(a grid.Alert) {
	s.alerts = append(s.alerts, a)
	if s.observer != nil {
		s.observer.ObserveAlert(a)
	}
}

// Readings returns the reading log, oldest first.
func (s *Session) Readings() []grid.Reading {
	return s.readings.all()
}

// ReadingsFor returns the readings of one substation, oldest first.
func (s *Session) ReadingsFor(id string) []grid.Reading {
	return grid.FilterBySubstation(s.readings.all(), id)
}

// Latest returns the most recent reading across all substations.
func (s *Session) Latest() (grid.Reading, bool) {
	return s.readings.newest()
}

// ReadingCount returns the number of readings currently held.
func (s *Session) ReadingCount() int {
	return s.readings.len()
}

// RecentAlerts returns up to n of the newest alerts, oldest first, so the
// most recent alert is always last.
func (s *Session) RecentAlerts(n int) []grid.Alert {
	if n <= 0 || len(s.alerts) == 0 {
		return nil
	}
	if n > len(s.alerts) {
		n = len(s.alerts)
	}
	out := make([]grid.Alert, n)
	copy(out, s.alerts[len(s.alerts)-n:])
	return out
}

// AlertCount returns the total number of alerts raised this session.
func (s *Session) AlertCount() int {
	return len(s.alerts)
}

// Reset drops all readings and alerts, as on a session restart.
func (s *Session) Reset() {
	s.readings.reset()
	s.alerts = nil
	s.log.Debug("session reset")
}
