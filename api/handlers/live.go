package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/eris-ems/eris-api/models"
)

// LiveEvent is a single message on the live dispatch feed
type LiveEvent struct {
	Type     string           `json:"type"`
	Response *models.Response `json:"response,omitempty"`
	SentAt   time.Time        `json:"sentAt"`
}

// Hub fans dispatch and lifecycle events out to connected websocket
// clients
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and keeps the connection registered
// until the client goes away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("failed to upgrade websocket connection", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	zap.S().Debugw("websocket client connected", "remote", conn.RemoteAddr().String())

	// We only push events; reads just drain control frames and detect
	// the client closing.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends an event to every connected client. Clients that
// fail the write are dropped.
func (h *Hub) Broadcast(event LiveEvent) {
	if h == nil {
		return
	}
	event.SentAt = time.Now().UTC()

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			zap.S().Debugw("dropping websocket client", "remote", conn.RemoteAddr().String(), "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
	}
}
