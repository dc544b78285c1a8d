package web

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/logger"
	"github.com/rileyhilliard/greengrid/internal/metrics"
	"github.com/rileyhilliard/greengrid/internal/session"
)

var fixedNow = time.Date(2025, 5, 4, 14, 3, 7, 0, time.UTC)

// overloadModel produces 5000 kW on every reading, above every test capacity.
var overloadModel = grid.LoadModel{Mean: 5000, StdDev: 0, Floor: 200}

type testEnv struct {
	server  *Server
	manager *Manager
	metrics *metrics.Metrics
	http    *httptest.Server
}

func testRegistry() *grid.Registry {
	return grid.NewRegistryFromCapacities(
		grid.Substation{ID: "S01", CapacityKW: 2000},
		grid.Substation{ID: "S02", CapacityKW: 2400},
		grid.Substation{ID: "S03", CapacityKW: 2600},
	)
}

func newTestEnv(t *testing.T, model grid.LoadModel, mutate func(*Options)) *testEnv {
	t.Helper()

	reg := testRegistry()
	m := metrics.New()
	eval := grid.NewEvaluator(reg, grid.DefaultThreshold)
	factory := NewSessionFactory(reg, model, eval, session.DefaultOptions(), 42, session.WithObserver(m))
	mgr := NewManager(factory, time.Hour, WithActiveSessions(m))

	opts := Options{
		Title:     "GreenGrid",
		Interval:  time.Hour,
		AccessLog: io.Discard,
		Now:       func() time.Time { return fixedNow },
	}
	if mutate != nil {
		mutate(&opts)
	}

	srv := New(reg, mgr, m, nil, opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{server: srv, manager: mgr, metrics: m, http: ts}
}

func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func post(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Post(url, "application/json", nil)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	return resp
}

func TestIndex_RendersPlaceholderAndCaption(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)
	c := env.client(t)

	resp := get(t, c, env.http.URL+"/?substation=S02")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(body)

	assert.Contains(t, html, "Demo app – GreenGrid")
	assert.Contains(t, html, "No readings for S02 yet.")
	assert.Contains(t, html, `<option value="S02" selected>`)
	assert.Contains(t, html, NoAlertsText)
	assert.Contains(t, html, "Live Charts")
	assert.Contains(t, html, "Alerts")
}

func TestIndex_UnknownSubstationFallsBackToFirst(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)

	resp := get(t, env.client(t), env.http.URL+"/?substation=S99")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "No readings for S01 yet.")
}

func TestSession_CookieIsCreatedOnceAndReused(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)
	c := env.client(t)

	resp := get(t, c, env.http.URL+"/api/snapshot")
	resp.Body.Close()
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, env.manager.Len())

	resp = get(t, c, env.http.URL+"/api/snapshot")
	resp.Body.Close()
	assert.Empty(t, resp.Cookies(), "existing session must be reused")
	assert.Equal(t, 1, env.manager.Len())
}

func TestTick_ProducesReadingAndAlert(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)
	c := env.client(t)

	resp := post(t, c, env.http.URL+"/api/tick")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[session.TickResult](t, resp)

	assert.Equal(t, 5000, res.Reading.LoadKW)
	assert.True(t, fixedNow.Equal(res.Reading.Time))
	require.NotNil(t, res.Alert)
	assert.Equal(t, res.Reading.Substation, res.Alert.Substation)
	assert.True(t, strings.HasPrefix(res.Alert.Message, grid.AlertSymbol))

	resp = get(t, c, env.http.URL+"/api/alerts")
	alerts := decode[AlertsResponse](t, resp)
	assert.Equal(t, 1, alerts.Total)
	require.Len(t, alerts.Alerts, 1)
	assert.Equal(t, res.Alert.Message, alerts.Alerts[0].Message)

	resp = get(t, c, env.http.URL+"/api/snapshot?substation="+res.Reading.Substation)
	snap := decode[session.Snapshot](t, resp)
	assert.True(t, snap.HasData)
	assert.Equal(t, 5000, snap.LatestKW)
	assert.Equal(t, 5000, snap.ForecastKW)
	assert.True(t, snap.Overloaded)
	assert.Equal(t, 1, snap.Readings)
}

func TestSessions_AreIsolated(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)
	alice := env.client(t)
	bob := env.client(t)

	for i := 0; i < 3; i++ {
		post(t, alice, env.http.URL+"/api/tick").Body.Close()
	}

	a := decode[AlertsResponse](t, get(t, alice, env.http.URL+"/api/alerts"))
	b := decode[AlertsResponse](t, get(t, bob, env.http.URL+"/api/alerts"))

	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 0, b.Total)
	assert.NotNil(t, b.Alerts)
	assert.Empty(t, b.Alerts)
	assert.Equal(t, 2, env.manager.Len())
}

func TestSnapshot_UnknownSubstation(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)

	resp := get(t, env.client(t), env.http.URL+"/api/snapshot?substation=S42")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "Unknown substation 'S42'")
	assert.Contains(t, body.Suggestion, "S01")
}

func TestSnapshot_EmptySessionHasNoData(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)

	snap := decode[session.Snapshot](t, get(t, env.client(t), env.http.URL+"/api/snapshot?substation=S03"))
	assert.Equal(t, "S03", snap.Substation)
	assert.Equal(t, 2600, snap.CapacityKW)
	assert.InDelta(t, 2340.0, snap.LimitKW, 0.001)
	assert.False(t, snap.HasData)
	assert.Zero(t, snap.Readings)
}

func TestSnapshot_SampleOnInteraction(t *testing.T) {
	env := newTestEnv(t, overloadModel, func(o *Options) { o.SampleOnInteraction = true })
	c := env.client(t)

	snap := decode[session.Snapshot](t, get(t, c, env.http.URL+"/api/snapshot?substation=S01"))
	assert.Equal(t, 1, snap.Readings)

	// Same selection is not a new interaction.
	snap = decode[session.Snapshot](t, get(t, c, env.http.URL+"/api/snapshot?substation=S01"))
	assert.Equal(t, 1, snap.Readings)

	snap = decode[session.Snapshot](t, get(t, c, env.http.URL+"/api/snapshot?substation=S02"))
	assert.Equal(t, 2, snap.Readings)
}

func TestReset_ClearsSession(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)
	c := env.client(t)

	post(t, c, env.http.URL+"/api/tick").Body.Close()
	resp := post(t, c, env.http.URL+"/api/reset")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	alerts := decode[AlertsResponse](t, get(t, c, env.http.URL+"/api/alerts"))
	assert.Zero(t, alerts.Total)
}

func TestAPI_WrongMethodIsNotAllowed(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)
	c := env.client(t)

	for _, path := range []string{"/api/tick", "/api/reset"} {
		resp := get(t, c, env.http.URL+path)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "GET %s", path)
	}

	for _, path := range []string{"/api/substations", "/api/snapshot", "/api/alerts"} {
		resp := post(t, c, env.http.URL+path)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "POST %s", path)
	}
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	log := logger.NewBufferLogger()
	srv := New(testRegistry(), nil, nil, log, Options{AccessLog: io.Discard})

	rec := httptest.NewRecorder()
	srv.writeJSON(rec, http.StatusOK, map[string]float64{"load": math.Inf(1)})

	msgs := log.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, "error", msgs[0].Level)
	assert.Contains(t, msgs[0].Message, "encode response")
}

func TestAPI_UnknownPathIsNotFound(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)

	resp := get(t, env.client(t), env.http.URL+"/api/nope")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubstations(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)

	body := decode[SubstationsResponse](t, get(t, env.client(t), env.http.URL+"/api/substations"))
	require.Len(t, body.Substations, 3)
	assert.Equal(t, grid.Substation{ID: "S01", CapacityKW: 2000}, body.Substations[0])
	assert.Equal(t, grid.DefaultThreshold, body.Threshold)
}

func TestHealthAndNotFound(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)
	c := env.client(t)

	resp := get(t, c, env.http.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", health["status"])

	resp = get(t, c, env.http.URL+"/nope")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", decode[ErrorResponse](t, resp).Error)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)
	c := env.client(t)

	post(t, c, env.http.URL+"/api/tick").Body.Close()

	resp := get(t, c, env.http.URL+"/metrics")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "greengrid_readings_total")
	assert.Contains(t, text, "greengrid_overload_alerts_total")
	assert.Contains(t, text, "greengrid_active_sessions 1")
	assert.Contains(t, text, `greengrid_http_requests_total{route="/api/tick",status="200"} 1`)
}

func wsURL(base, path string) string {
	return "ws" + strings.TrimPrefix(base, "http") + path
}

func readStream(t *testing.T, conn *websocket.Conn) StreamMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStream_PushesSnapshots(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(env.http.URL, "/ws?substation=S02"), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.NotEmpty(t, resp.Cookies(), "handshake should carry the session cookie")

	msg := readStream(t, conn)
	assert.Equal(t, "snapshot", msg.Type)
	require.NotNil(t, msg.Snapshot)
	assert.Equal(t, "S02", msg.Snapshot.Substation)
	assert.False(t, msg.Snapshot.HasData)
	assert.Nil(t, msg.Tick)
	assert.Contains(t, msg.HTML, "No readings for S02 yet.")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "tick"}))
	msg = readStream(t, conn)
	assert.Equal(t, "snapshot", msg.Type)
	require.NotNil(t, msg.Tick)
	assert.Equal(t, 5000, msg.Tick.Reading.LoadKW)
	assert.Equal(t, 1, msg.Snapshot.Readings)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "select", Substation: "S03"}))
	msg = readStream(t, conn)
	assert.Equal(t, "S03", msg.Snapshot.Substation)
	assert.Equal(t, 2600, msg.Snapshot.CapacityKW)
	assert.Equal(t, 1, msg.Snapshot.AlertsTotal)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "select", Substation: "S99"}))
	msg = readStream(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "S99")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "bogus"}))
	msg = readStream(t, conn)
	assert.Equal(t, "error", msg.Type)
}

func TestStream_TicksOnInterval(t *testing.T) {
	env := newTestEnv(t, overloadModel, func(o *Options) { o.Interval = 20 * time.Millisecond })

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(env.http.URL, "/ws"), nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readStream(t, conn)
	assert.Nil(t, first.Tick)

	next := readStream(t, conn)
	require.NotNil(t, next.Tick)
	assert.GreaterOrEqual(t, next.Snapshot.Readings, 1)
}

func TestStream_UnknownSubstationRejectedBeforeUpgrade(t *testing.T) {
	env := newTestEnv(t, overloadModel, nil)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(env.http.URL, "/ws?substation=S42"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNewChartData(t *testing.T) {
	empty := newChartData(session.Snapshot{Substation: "S01"})
	assert.Empty(t, empty.Points)
	assert.False(t, empty.ShowLimit)

	snap := session.Snapshot{
		Substation: "S01",
		CapacityKW: 2000,
		LimitKW:    1800,
		HasData:    true,
		Series: []grid.Reading{
			{Substation: "S01", LoadKW: 0},
			{Substation: "S01", LoadKW: 2000},
		},
	}
	c := newChartData(snap)

	// x spans [48, 720], y maps 0 kW to the bottom and 2000 kW to the top pad.
	assert.Equal(t, "48.0,240.0 720.0,8.0", c.Points)
	assert.Equal(t, "720.0", c.LastX)
	assert.Equal(t, "8.0", c.LastY)
	assert.Equal(t, "2000", c.TopLabel)
	assert.True(t, c.ShowLimit)
	assert.Equal(t, "31.2", c.ThresholdY)
	assert.Equal(t, "1800", c.LimitLabel)

	// Loads above capacity stretch the scale.
	snap.Series = []grid.Reading{{Substation: "S01", LoadKW: 4000}}
	c = newChartData(snap)
	assert.Equal(t, "4000", c.TopLabel)
	assert.Equal(t, "720.0,8.0", c.Points)
}

func TestRenderPanel_Alerts(t *testing.T) {
	snap := session.Snapshot{
		Substation:  "S01",
		CapacityKW:  2000,
		LimitKW:     1800,
		HasData:     true,
		Series:      []grid.Reading{{Substation: "S01", LoadKW: 1900}},
		LatestKW:    1900,
		ForecastKW:  1900,
		Overloaded:  true,
		Alerts:      []grid.Alert{{Substation: "S01", Message: "⚠ S01 overload at 14:03:07 → 1900 kW (Capacity 2000 kW)"}},
		AlertsTotal: 1,
	}

	html, err := renderPanel(newPanelData(snap, 5))
	require.NoError(t, err)
	assert.Contains(t, html, "Forecast (5-pt MA)")
	assert.Contains(t, html, `class="threshold"`)
	assert.Contains(t, html, "S01 overload at 14:03:07")
	assert.NotContains(t, html, NoAlertsText)
}
