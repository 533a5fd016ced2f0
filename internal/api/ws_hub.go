package api

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// wsMessage is the frame pushed to dashboards.
type wsMessage struct {
	Event   string      `json:"evento"`
	Payload interface{} `json:"dados,omitempty"`
}

type outbound struct {
	userID string
	data   []byte
}

// Hub tracks the open dashboard sockets per user and fans events out to them.
type Hub struct {
	clients   map[*websocket.Conn]string
	broadcast chan outbound
	mutex     sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]string),
		broadcast: make(chan outbound, 256),
	}
}

// Run delivers queued events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg outbound) {
	h.mutex.RLock()
	var failed []*websocket.Conn
	for conn, userID := range h.clients {
		if msg.userID != "" && msg.userID != userID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
			failed = append(failed, conn)
		}
	}
	h.mutex.RUnlock()

	for _, conn := range failed {
		h.RemoveClient(conn)
	}
}

func (h *Hub) AddClient(userID string, conn *websocket.Conn) {
	h.mutex.Lock()
	h.clients[conn] = userID
	h.mutex.Unlock()
}

func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mutex.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mutex.Unlock()
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	h.mutex.Unlock()
}

// Publish queues an event for userID's dashboards, or for everyone when
// userID is empty. A full queue drops the event instead of blocking.
func (h *Hub) Publish(userID, event string, payload interface{}) {
	data, err := json.Marshal(wsMessage{Event: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode ws event")
		return
	}
	select {
	case h.broadcast <- outbound{userID: userID, data: data}:
	default:
		log.Warn().Str("event", event).Str("user_id", userID).Msg("ws queue full, event dropped")
	}
}

// ClientsCount returns the number of open sockets.
func (h *Hub) ClientsCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
