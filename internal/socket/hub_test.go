package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sid := c.Query("sid"); sid != "" {
			c.Request = c.Request.WithContext(session.WithSessionID(c.Request.Context(), sid))
		}
		c.Next()
	})
	r.GET("/ws", NewHandler(hub, []string{"*"}).HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestBroadcaster_ReachesOnlyOwnSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)
	srv := newServer(t, hub)

	mine, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?sid=s1"), nil)
	require.NoError(t, err)
	defer mine.Close()
	other, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?sid=s2"), nil)
	require.NoError(t, err)
	defer other.Close()

	require.Eventually(t, func() bool {
		return hub.RoomSize(SessionRoom("s1")) == 1 && hub.RoomSize(SessionRoom("s2")) == 1
	}, time.Second, 10*time.Millisecond)

	NewBroadcaster(hub).PublishListRefreshed("s1", "department", []string{"Finance"}, 1)

	mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := mine.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageListRefreshed, msg.Type)
	assert.Equal(t, "department", msg.Payload["kind"])
	assert.Equal(t, float64(1), msg.Payload["count"])

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestHandler_RequiresSession(t *testing.T) {
	hub := NewHub(nil)
	srv := newServer(t, hub)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestClient_PingPong(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)
	srv := newServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?sid=s1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ClientMessage{Action: "ping"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessagePong, msg.Type)
}

func detachedClient(hub *Hub, sid string) *Client {
	return &Client{
		ID:        "c-" + sid,
		SessionID: sid,
		Hub:       hub,
		Send:      make(chan []byte, 4),
		Rooms:     make(map[string]bool),
		lastPing:  time.Now(),
	}
}

func TestClient_PingAfterUnregister(t *testing.T) {
	hub := NewHub(nil)
	c := detachedClient(hub, "s1")
	hub.registerClient(c)
	hub.unregisterClient(c)

	assert.NotPanics(t, func() {
		c.handleMessage([]byte(`{"action":"ping"}`))
		c.handleMessage([]byte(`{"action":"ping"}`))
	})

	// closing twice is a no-op
	assert.NotPanics(t, func() { hub.closeAll(); c.closeSend() })
}

func TestHub_DropAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	c := detachedClient(hub, "s1")
	hub.register <- c
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		hub.drop(c)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drop blocked after the hub stopped")
	}
}

func TestHub_DropsSilentClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	silent := detachedClient(hub, "s1")
	silent.lastPing = time.Now().Add(-2 * pongWait)
	alive := detachedClient(hub, "s2")
	hub.register <- silent
	hub.register <- alive
	require.Eventually(t, func() bool { return hub.ConnectedClients() == 2 }, time.Second, 10*time.Millisecond)

	hub.pingClients()

	require.Eventually(t, func() bool { return hub.ConnectedClients() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.RoomSize(SessionRoom("s1")))
	assert.Equal(t, 1, hub.RoomSize(SessionRoom("s2")))

	var msg Message
	require.NoError(t, json.Unmarshal(<-alive.Send, &msg))
	assert.Equal(t, MessagePing, msg.Type)
}
