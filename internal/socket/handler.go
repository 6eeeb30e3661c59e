package socket

import (
	"net/http"
	"slices"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler upgrades admin console connections. The browser session is taken
// from the request context, set by the session-id middleware.
type Handler struct {
	Hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(allowedOrigins, "*") {
					return true
				}
				return slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	sid := session.SessionIDFromContext(c.Request.Context())
	if sid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Hub.logger.WithError(err).Warn("[WebSocket] Upgrade error")
		return
	}

	client := NewClient(h.Hub, sid, conn)
	select {
	case h.Hub.register <- client:
	case <-h.Hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func NewClient(hub *Hub, sid string, conn *websocket.Conn) *Client {
	return &Client{
		ID:        uuid.New().String(),
		SessionID: sid,
		Conn:      conn,
		Hub:       hub,
		Send:      make(chan []byte, 256),
		Rooms:     make(map[string]bool),
		lastPing:  time.Now(),
	}
}
