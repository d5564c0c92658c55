package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler upgrades the request and binds the socket to a hub session.
type Handler struct {
	hub *Hub
	log *slog.Logger
}

func NewHandler(hub *Hub, log *slog.Logger) *Handler {
	return &Handler{hub: hub, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	session := h.hub.Connect()
	go h.writePump(conn, session)
	h.readPump(r, conn, session)
}

// readPump runs on the request goroutine until the peer goes away.
func (h *Handler) readPump(r *http.Request, conn *websocket.Conn, s *Session) {
	ctx := r.Context()
	defer func() {
		h.hub.Disconnect(ctx, s)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read error", "session_id", s.ID(), "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			h.log.Debug("malformed frame", "session_id", s.ID(), "error", err)
			continue
		}

		switch env.Event {
		case EventNewUser:
			identity, err := env.DecodeString()
			if err != nil {
				h.log.Debug("malformed newUser payload", "session_id", s.ID(), "error", err)
				continue
			}
			h.hub.Announce(ctx, s, identity)
		case EventChatMessage:
			text, err := env.DecodeString()
			if err != nil {
				h.log.Debug("malformed chatMessage payload", "session_id", s.ID(), "error", err)
				continue
			}
			h.hub.Submit(ctx, s, text)
		default:
			h.log.Debug("unknown event", "session_id", s.ID(), "event", env.Event)
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, s *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.Frames():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
