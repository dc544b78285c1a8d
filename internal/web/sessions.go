package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/logger"
	"github.com/rileyhilliard/greengrid/internal/session"
)

// CookieName holds the browser session id.
const CookieName = "greengrid_session"

// DefaultSessionTTL is how long an idle browser session is kept.
const DefaultSessionTTL = 30 * time.Minute

// SessionFactory creates the isolated session state for a new browser.
type SessionFactory func() *session.Session

// NewSessionFactory returns a factory whose sessions share the registry and
// evaluator but each own a generator. Generator seeds are drawn from a master
// source seeded with seed, so a fixed seed gives a reproducible sequence of
// sessions. Seed 0 picks a random master seed.
func NewSessionFactory(reg *grid.Registry, model grid.LoadModel, eval *grid.Evaluator, opts session.Options, seed uint64, options ...session.Option) SessionFactory {
	var mu sync.Mutex
	master := grid.NewSource(seed)

	return func() *session.Session {
		mu.Lock()
		s := master.Uint64()
		mu.Unlock()

		gen := grid.NewGenerator(reg, model, grid.NewSource(s))
		return session.New(gen, eval, opts, options...)
	}
}

// Entry is one browser session. All access to the wrapped session goes
// through Do, which serializes HTTP handlers and websocket streams of the
// same browser.
type Entry struct {
	ID string

	mu       sync.Mutex
	sess     *session.Session
	selected string
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session.
func (e *Entry) Do(fn func(s *session.Session)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.sess)
}

// Selected returns the substation this browser last looked at.
func (e *Entry) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// Select records the selected substation and reports whether it changed.
func (e *Entry) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	changed := e.selected != id
	e.selected = id
	return changed
}

func (e *Entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
}

func (e *Entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeen
}

// ActiveSessionsRecorder receives the session count after every change.
type ActiveSessionsRecorder interface {
	SetActiveSessions(n int)
}

// Manager holds one Entry per browser, keyed by the session cookie.
type Manager struct {
	factory SessionFactory
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger
	gauge   ActiveSessionsRecorder

	mu       sync.Mutex
	sessions map[string]*Entry
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the clock used for idle tracking.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// WithManagerLogger sets the manager logger.
func WithManagerLogger(l logger.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

// WithActiveSessions reports the session count, e.g. to a Prometheus gauge.
func WithActiveSessions(r ActiveSessionsRecorder) ManagerOption {
	return func(m *Manager) {
		m.gauge = r
	}
}

// NewManager creates an empty manager. A ttl <= 0 uses DefaultSessionTTL.
func NewManager(factory SessionFactory, ttl time.Duration, opts ...ManagerOption) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m := &Manager{
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		log:      logger.Noop(),
		sessions: make(map[string]*Entry),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Get returns the session for id and marks it as used.
func (m *Manager) Get(id string) (*Entry, bool) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		e.touch(m.now())
	}
	return e, ok
}

// Create starts a new session with a fresh id.
func (m *Manager) Create() *Entry {
	e := &Entry{
		ID:       uuid.NewString(),
		sess:     m.factory(),
		lastSeen: m.now(),
	}

	m.mu.Lock()
	m.sessions[e.ID] = e
	n := len(m.sessions)
	m.mu.Unlock()

	m.log.Debug("session %s created (%d active)", e.ID, n)
	m.report(n)
	return e
}

// Remove drops the session for id.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	m.report(n)
}

// Resolve returns the session named by the request cookie, creating one
// (and setting the cookie) when the cookie is missing, malformed or expired.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) *Entry {
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if e, ok := m.Get(c.Value); ok {
				return e
			}
		}
	}

	e := m.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    e.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return e
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	removed := 0
	for id, e := range m.sessions {
		if e.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		m.log.Debug("evicted %d idle sessions (%d active)", removed, n)
		m.report(n)
	}
	return removed
}

// Run sweeps idle sessions periodically until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) report(n int) {
	if m.gauge != nil {
		m.gauge.SetActiveSessions(n)
	}
}
