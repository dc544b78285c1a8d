package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/session"
)

var _ session.Observer = (*Metrics)(nil)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveReading(grid.Reading{Substation: "S01", LoadKW: 1900})
	m.ObserveReading(grid.Reading{Substation: "S01", LoadKW: 2100})
	m.ObserveReading(grid.Reading{Substation: "S02", LoadKW: 1500})
	m.ObserveAlert(grid.Alert{Substation: "S01"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.readings.WithLabelValues("S01")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.readings.WithLabelValues("S02")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alerts.WithLabelValues("S01")))

	m.SetActiveSessions(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReading(grid.Reading{Substation: "S01"})
		m.ObserveAlert(grid.Alert{Substation: "S01"})
		m.SetActiveSessions(1)
	})

	h := m.WrapHandler("/x", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestSessionFeedsMetrics(t *testing.T) {
	m := New()
	reg := grid.NewRegistryFromCapacities(grid.Substation{ID: "S01", CapacityKW: 2000})
	gen := grid.NewGenerator(reg, grid.DefaultLoadModel(), grid.NewSource(3))
	s := session.New(gen, grid.NewEvaluator(reg, grid.DefaultThreshold), session.DefaultOptions(),
		session.WithObserver(m))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		s.Tick(now.Add(time.Duration(i) * time.Second))
	}

	assert.Equal(t, 40.0, testutil.ToFloat64(m.readings.WithLabelValues("S01")))
	assert.Equal(t, float64(s.AlertCount()), testutil.ToFloat64(m.alerts.WithLabelValues("S01")))
}

func TestWrapHandler(t *testing.T) {
	m := New()
	h := m.WrapHandler("/api/snapshot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("substation") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	for _, target := range []string{"/api/snapshot?substation=S01", "/api/snapshot?substation=S02", "/api/snapshot"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/snapshot", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/snapshot", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveReading(grid.Reading{Substation: "S07"})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `greengrid_readings_total{substation="S07"} 1`)
	assert.Contains(t, string(body), "greengrid_active_sessions 0")
}
