package chat

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestHandler_ChatRoundTrip(t *testing.T) {
	appender := &mockAppender{}
	hub := NewHub(appender, discardLogger())
	srv := httptest.NewServer(NewHandler(hub, discardLogger()))
	defer srv.Close()

	alice := dial(t, srv)
	bob := dial(t, srv)
	require.Eventually(t, func() bool { return hub.SessionCount() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, alice.WriteJSON(map[string]any{"event": EventNewUser, "data": "alice@example.com"}))
	for _, conn := range []*websocket.Conn{alice, bob} {
		env := readEnvelope(t, conn)
		assert.Equal(t, EventUserConnected, env.Event)
		assert.JSONEq(t, `"alice@example.com"`, string(env.Data))
	}

	require.NoError(t, alice.WriteJSON(map[string]any{"event": EventChatMessage, "data": "hello"}))
	for _, conn := range []*websocket.Conn{alice, bob} {
		env := readEnvelope(t, conn)
		assert.Equal(t, EventMessage, env.Event)
		assert.JSONEq(t, `{"userEmail":"alice@example.com","message":"hello"}`, string(env.Data))
	}

	require.NoError(t, alice.Close())
	env := readEnvelope(t, bob)
	assert.Equal(t, EventUserDisconnected, env.Event)
	assert.JSONEq(t, `"alice@example.com"`, string(env.Data))
	assert.Eventually(t, func() bool { return hub.SessionCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHandler_IgnoresMalformedFrames(t *testing.T) {
	hub := NewHub(&mockAppender{}, discardLogger())
	srv := httptest.NewServer(NewHandler(hub, discardLogger()))
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(map[string]any{"event": EventNewUser, "data": 42}))
	require.NoError(t, conn.WriteJSON(map[string]any{"event": EventNewUser, "data": "carol"}))

	env := readEnvelope(t, conn)
	assert.Equal(t, EventUserConnected, env.Event)
	assert.JSONEq(t, `"carol"`, string(env.Data))
}
