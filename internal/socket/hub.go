package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Screen messages
	MessageListRefreshed  MessageType = "list_refreshed"
	MessageSessionExpired MessageType = "session_expired"

	// System messages
	MessagePing MessageType = "ping"
	MessagePong MessageType = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType    `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Client is one open admin console tab.
type Client struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Hub       *Hub
	Send      chan []byte
	Rooms     map[string]bool
	mu        sync.Mutex
	lastPing  time.Time
	// closed is set under mu when the hub closes Send.
	closed bool
}

// SessionRoom is the room every connection of a browser session joins.
func SessionRoom(sid string) string {
	return "session:" + sid
}

// Hub maintains the set of active clients and fans messages out to rooms.
type Hub struct {
	clients     map[*Client]bool
	roomClients map[string]map[*Client]bool

	register      chan *Client
	unregister    chan *Client
	roomBroadcast chan *RoomMessage
	done          chan struct{}

	logger *logrus.Entry
	mu     sync.RWMutex
}

// RoomMessage represents a message to be sent to a specific room
type RoomMessage struct {
	Room    string
	Message []byte
}

func NewHub(logger *logrus.Entry) *Hub {
	if logger == nil {
		logger = logrus.WithField("component", "socket")
	}
	return &Hub{
		clients:       make(map[*Client]bool),
		roomClients:   make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		roomBroadcast: make(chan *RoomMessage, 256),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// Run is the hub's main loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("[Hub] WebSocket hub started")

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case rm := <-h.roomBroadcast:
			h.broadcastToRoom(rm)

		case <-pingTicker.C:
			h.pingClients()

		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("[Hub] WebSocket hub stopped")
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.joinLocked(client, SessionRoom(client.SessionID))

	h.logger.WithFields(logrus.Fields{
		"client": client.ID,
		"total":  len(h.clients),
	}).Debug("[Hub] Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	client.mu.Lock()
	for room := range client.Rooms {
		if clients, ok := h.roomClients[room]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.roomClients, room)
			}
		}
	}
	client.mu.Unlock()

	client.closeSend()
	h.logger.WithFields(logrus.Fields{
		"client": client.ID,
		"total":  len(h.clients),
	}).Debug("[Hub] Client disconnected")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		client.closeSend()
	}
	h.roomClients = make(map[string]map[*Client]bool)
}

func (h *Hub) broadcastToRoom(rm *RoomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.roomClients[rm.Room] {
		select {
		case client.Send <- rm.Message:
		default:
			go h.drop(client)
		}
	}
}

func (h *Hub) pingClients() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, _ := json.Marshal(Message{Type: MessagePing, Timestamp: time.Now()})
	for client := range h.clients {
		if client.idleSince() > pongWait {
			h.logger.WithField("client", client.ID).Debug("[Hub] Dropping silent client")
			go h.drop(client)
			continue
		}
		select {
		case client.Send <- data:
		default:
			go h.drop(client)
		}
	}
}

// drop asks the hub loop to unregister c. It gives up once the hub has stopped.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ============================================
// Room Management
// ============================================

func (h *Hub) joinLocked(client *Client, room string) {
	client.mu.Lock()
	client.Rooms[room] = true
	client.mu.Unlock()

	if h.roomClients[room] == nil {
		h.roomClients[room] = make(map[*Client]bool)
	}
	h.roomClients[room][client] = true
}

// ============================================
// Sending
// ============================================

// SendToRoom queues a message for every client in room.
func (h *Hub) SendToRoom(room string, msgType MessageType, payload map[string]any) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		h.logger.WithError(err).Error("[Hub] Error marshaling message")
		return
	}

	select {
	case h.roomBroadcast <- &RoomMessage{Room: room, Message: data}:
	default:
		h.logger.WithField("room", room).Warn("[Hub] Broadcast queue full, dropping message")
	}
}

// ============================================
// Query Methods
// ============================================

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.roomClients[room])
}

func (h *Hub) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
