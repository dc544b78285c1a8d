package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rileyhilliard/greengrid/internal/errors"
	"github.com/rileyhilliard/greengrid/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// ClientMessage is what the page sends over the websocket.
//
//	{"type":"select","substation":"S03"}
//	{"type":"tick"}
type ClientMessage struct {
	Type       string `json:"type"`
	Substation string `json:"substation,omitempty"`
}

// StreamMessage is what the server pushes over the websocket.
type StreamMessage struct {
	Type     string              `json:"type"`
	Snapshot *session.Snapshot   `json:"snapshot,omitempty"`
	Tick     *session.TickResult `json:"tick,omitempty"`
	HTML     string              `json:"html,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// handleStream upgrades to a websocket (GET /ws?substation=S01). The
// connection ticks the browser's session every interval and pushes a
// snapshot after each tick and after each selection change.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	e := s.manager.Resolve(w, r)
	id, serr := s.resolveSubstation(r, e)
	if serr != nil {
		s.writeStructuredError(w, http.StatusBadRequest, serr)
		return
	}
	s.selectSubstation(e, id)

	// Carry the session cookie set by Resolve into the handshake response
	conn, err := upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		// Upgrade already replied with an HTTP error
		s.log.Debug("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.log.Debug("stream opened for session %s", e.ID)
	defer s.log.Debug("stream closed for session %s", e.ID)

	incoming := make(chan ClientMessage)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go s.readPump(conn, incoming, done, quit)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	ctx := r.Context()

	if err := s.push(conn, e, nil); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return

		case <-done:
			return

		case <-ticker.C:
			if _, ok := s.manager.Get(e.ID); !ok {
				return
			}
			if err := s.tickAndPush(conn, e); err != nil {
				return
			}

		case msg := <-incoming:
			if err := s.handleClientMessage(conn, e, msg); err != nil {
				return
			}

		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads client messages until the connection fails, then closes
// done. It stops delivering once quit is closed.
func (s *Server) readPump(conn *websocket.Conn, incoming chan<- ClientMessage, done chan<- struct{}, quit <-chan struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("ignoring malformed client message: %v", err)
			continue
		}
		select {
		case incoming <- msg:
		case <-quit:
			return
		}
	}
}

func (s *Server) handleClientMessage(conn *websocket.Conn, e *Entry, msg ClientMessage) error {
	switch msg.Type {
	case "select":
		if !s.registry.Contains(msg.Substation) {
			err := errors.NewUnknownSubstation(msg.Substation, s.registry.IDs())
			return s.write(conn, StreamMessage{Type: "error", Error: err.Short()})
		}
		s.selectSubstation(e, msg.Substation)
		return s.push(conn, e, nil)

	case "tick":
		return s.tickAndPush(conn, e)

	default:
		return s.write(conn, StreamMessage{Type: "error", Error: "unknown message type '" + msg.Type + "'"})
	}
}

func (s *Server) tickAndPush(conn *websocket.Conn, e *Entry) error {
	var res session.TickResult
	e.Do(func(sess *session.Session) {
		res = sess.Tick(s.opts.Now())
	})
	return s.push(conn, e, &res)
}

// push sends the snapshot of the browser's selected substation.
func (s *Server) push(conn *websocket.Conn, e *Entry, tick *session.TickResult) error {
	id := e.Selected()

	var snap session.Snapshot
	e.Do(func(sess *session.Session) {
		snap = sess.Snapshot(id)
	})

	html, err := renderPanel(newPanelData(snap, s.opts.ForecastWindow))
	if err != nil {
		s.log.Error("render panel: %v", err)
	}

	return s.write(conn, StreamMessage{Type: "snapshot", Snapshot: &snap, Tick: tick, HTML: html})
}

func (s *Server) write(conn *websocket.Conn, msg StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
