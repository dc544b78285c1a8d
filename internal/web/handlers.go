package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rileyhilliard/greengrid/internal/errors"
	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/session"
)

// SubstationsResponse is the body for GET /api/substations.
type SubstationsResponse struct {
	Substations []grid.Substation `json:"substations"`
	Threshold   float64           `json:"threshold"`
}

// AlertsResponse is the body for GET /api/alerts.
type AlertsResponse struct {
	Alerts []grid.Alert `json:"alerts"`
	Total  int          `json:"total"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) writeStructuredError(w http.ResponseWriter, status int, err *errors.Error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Short(), Suggestion: err.Suggestion})
}

// resolveSubstation picks the substation for a request: the query
// parameter when present, else the browser's last selection, else the
// first substation. Unknown ids are an error.
func (s *Server) resolveSubstation(r *http.Request, e *Entry) (string, *errors.Error) {
	id := strings.TrimSpace(r.URL.Query().Get("substation"))
	if id == "" {
		id = e.Selected()
	}
	if id == "" {
		first, _ := s.registry.At(0)
		return first, nil
	}
	if !s.registry.Contains(id) {
		return "", errors.NewUnknownSubstation(id, s.registry.IDs())
	}
	return id, nil
}

// selectSubstation records the selection for e. When selections count as
// refresh events and the selection changed, it also takes a reading.
func (s *Server) selectSubstation(e *Entry, id string) {
	if e.Select(id) && s.opts.SampleOnInteraction {
		e.Do(func(sess *session.Session) {
			sess.Tick(s.opts.Now())
		})
	}
}

// handleIndex renders the dashboard page (GET /?substation=S01).
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	e := s.manager.Resolve(w, r)
	id, err := s.resolveSubstation(r, e)
	if err != nil {
		// Fall back to the first substation rather than a broken page
		id, _ = s.registry.At(0)
	}
	s.selectSubstation(e, id)

	var snap session.Snapshot
	e.Do(func(sess *session.Session) {
		snap = sess.Snapshot(id)
	})

	data := pageData{
		Title:       s.opts.Title,
		Caption:     Caption,
		Substations: s.registry.Substations(),
		Selected:    id,
		Interval:    s.opts.Interval.Milliseconds(),
		Panel:       newPanelData(snap, s.opts.ForecastWindow),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.log.Error("render index: %v", err)
	}
}

// handleHealth reports liveness (GET /health).
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.manager.Len(),
	})
}

// handleSubstations lists the registry (GET /api/substations).
func (s *Server) handleSubstations(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, SubstationsResponse{
		Substations: s.registry.Substations(),
		Threshold:   s.opts.Threshold,
	})
}

// handleSnapshot returns the snapshot of one substation
// (GET /api/snapshot?substation=S01).
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	e := s.manager.Resolve(w, r)
	id, err := s.resolveSubstation(r, e)
	if err != nil {
		s.writeStructuredError(w, http.StatusBadRequest, err)
		return
	}
	s.selectSubstation(e, id)

	var snap session.Snapshot
	e.Do(func(sess *session.Session) {
		snap = sess.Snapshot(id)
	})
	s.writeJSON(w, http.StatusOK, snap)
}

// handleTick is an explicit refresh event (POST /api/tick).
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	e := s.manager.Resolve(w, r)

	var res session.TickResult
	e.Do(func(sess *session.Session) {
		res = sess.Tick(s.opts.Now())
	})
	s.writeJSON(w, http.StatusOK, res)
}

// handleAlerts returns the recent alerts (GET /api/alerts).
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	e := s.manager.Resolve(w, r)

	resp := AlertsResponse{}
	e.Do(func(sess *session.Session) {
		resp.Alerts = sess.RecentAlerts(sess.Options().AlertDisplay)
		resp.Total = sess.AlertCount()
	})
	if resp.Alerts == nil {
		resp.Alerts = []grid.Alert{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleReset restarts the browser's session (POST /api/reset).
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	e := s.manager.Resolve(w, r)
	e.Do(func(sess *session.Session) {
		sess.Reset()
	})
	w.WriteHeader(http.StatusNoContent)
}
