package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
)

const (
	storeFailedDetail = "message could not be stored"

	sendBufferSize = 256
	persistTimeout = 5 * time.Second
)

// MessageAppender persists a chat message before it is broadcast.
type MessageAppender interface {
	Append(ctx context.Context, sender, text string) (*domain.Message, error)
}

// Session is one connected socket. Its identity is empty until it announces itself.
type Session struct {
	id       uuid.UUID
	identity string
	send     chan []byte
}

func (s *Session) ID() uuid.UUID { return s.id }

// Frames returns the outgoing queue. It is closed when the session disconnects.
func (s *Session) Frames() <-chan []byte { return s.send }

// Hub tracks connected sessions and fans frames out to all of them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	messages MessageAppender
	relay    Relay
	log      *slog.Logger
}

func NewHub(messages MessageAppender, log *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID]*Session),
		messages: messages,
		log:      log,
	}
}

// UseRelay routes broadcasts through r so that sessions on other instances receive them too.
// The relay must deliver received frames back through Deliver.
func (h *Hub) UseRelay(r Relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay = r
}

func (h *Hub) Connect() *Session {
	s := &Session{
		id:   uuid.New(),
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()

	h.log.Debug("session connected", "session_id", s.id)
	return s
}

func (h *Hub) Announce(ctx context.Context, s *Session, identity string) {
	h.mu.Lock()
	if _, ok := h.sessions[s.id]; !ok {
		h.mu.Unlock()
		return
	}
	s.identity = identity
	h.mu.Unlock()

	h.log.Info("user connected", "session_id", s.id, "user", identity)
	h.broadcast(ctx, EventUserConnected, identity)
}

// Submit persists the text under the session's identity and broadcasts it.
// When persistence fails an error event is broadcast instead.
func (h *Hub) Submit(ctx context.Context, s *Session, text string) {
	sender := h.Identity(s)

	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	stored, err := h.messages.Append(ctx, sender, text)
	if err != nil {
		h.log.Warn("chat message rejected", "session_id", s.id, "user", sender, "error", err)
		h.broadcast(ctx, EventError, errorDetail(err))
		return
	}

	h.broadcast(ctx, EventMessage, ChatMessage{UserEmail: stored.User, Message: stored.Message})
}

func (h *Hub) Disconnect(ctx context.Context, s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s.id)
	close(s.send)
	identity := s.identity
	h.mu.Unlock()

	h.log.Info("user disconnected", "session_id", s.id, "user", identity)
	h.broadcast(ctx, EventUserDisconnected, identity)
}

func (h *Hub) Identity(s *Session) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return s.identity
}

func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) broadcast(ctx context.Context, event string, data any) {
	frame, err := encodeFrame(event, data)
	if err != nil {
		h.log.Error("encode frame", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()

	if relay != nil {
		err := relay.Publish(ctx, frame)
		if err == nil {
			return
		}
		h.log.Warn("relay publish failed, delivering locally", "event", event, "error", err)
	}
	h.Deliver(frame)
}

// Deliver queues the frame on every local session. A session whose queue is full misses it.
func (h *Hub) Deliver(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.sessions {
		select {
		case s.send <- frame:
		default:
			h.log.Warn("session queue full, frame dropped", "session_id", s.id)
		}
	}
}

// errorDetail keeps validation messages for clients but hides storage driver errors.
func errorDetail(err error) string {
	if errors.Is(err, domain.ErrMissingField) || errors.Is(err, domain.ErrInvalidField) {
		return err.Error()
	}
	return storeFailedDetail
}
