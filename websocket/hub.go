package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeCardDecided       MessageType = "CARD_DECIDED"
	MessageTypeComplaintAnswered MessageType = "COMPLAINT_ANSWERED"
	MessageTypeNoticePublished   MessageType = "NOTICE_PUBLISHED"
	MessageTypeError             MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewMessage(t MessageType, payload interface{}) WebSocketMessage {
	return WebSocketMessage{Type: t, Payload: payload, Timestamp: time.Now()}
}

// Client is one open connection. A user may hold several.
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan WebSocketMessage
}

// Hub keeps live connections grouped by user. Registration goes through Run;
// delivery locks the index directly so callers learn how many sockets were reached.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]map[*Client]struct{}
	total  int

	broadcast  chan WebSocketMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		byUser:     make(map[uuid.UUID]map[*Client]struct{}),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx ends, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, conns := range h.byUser {
				for client := range conns {
					h.dropLocked(client)
				}
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for _, conns := range h.byUser {
				for client := range conns {
					h.deliverLocked(client, message)
				}
			}
			h.mu.Unlock()
		}
	}
}

// join hands the client to Run. It reports false once Run has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave never blocks: after Run has stopped every client is already gone.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.byUser[client.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.byUser[client.UserID] = conns
	}
	if _, dup := conns[client]; !dup {
		conns[client] = struct{}{}
		h.total++
	}
}

// dropLocked is a no-op for clients that are already gone, so Send is closed once.
func (h *Hub) dropLocked(client *Client) {
	conns, ok := h.byUser[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.byUser, client.UserID)
	}
	h.total--
	close(client.Send)
}

// deliverLocked drops a client whose buffer is full instead of blocking the hub.
func (h *Hub) deliverLocked(client *Client, message WebSocketMessage) bool {
	select {
	case client.Send <- message:
		return true
	default:
		h.dropLocked(client)
		return false
	}
}

// Broadcast queues a message for every connection. Pushes are best effort:
// when the queue is full the message is discarded.
func (h *Hub) Broadcast(message WebSocketMessage) {
	select {
	case h.broadcast <- message:
	default:
	}
}

// SendToUser returns how many of the user's connections accepted the message.
func (h *Hub) SendToUser(userID uuid.UUID, message WebSocketMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for client := range h.byUser[userID] {
		if h.deliverLocked(client, message) {
			delivered++
		}
	}
	return delivered
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

func (h *Hub) Connected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID]) > 0
}
