package websocket

import (
	"encoding/json"
	"sync"

	"deal-alert-be/internal/pkg/logger"
)

// Hub tracks connected clients keyed by session id. A session can have more
// than one live connection (several tabs); all of them receive that session's
// view.
type Hub struct {
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionId] = append(h.clients[client.SessionId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionId})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionId]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionId]) == 0 {
					delete(h.clients, client.SessionId)
					h.logger.Info("Hub", "Session fully disconnected", map[string]interface{}{"session_id": client.SessionId})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Rebind moves a live client from its previous session slot to the one in
// client.SessionId. The Send channel stays open; only the hub's bookkeeping
// changes.
func (h *Hub) Rebind(client *Client, previousSessionId string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[previousSessionId]; ok {
		for i, c := range clients {
			if c == client {
				h.clients[previousSessionId] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.clients[previousSessionId]) == 0 {
			delete(h.clients, previousSessionId)
		}
	}
	h.clients[client.SessionId] = append(h.clients[client.SessionId], client)
	h.logger.Info("Hub", "Client rebound", map[string]interface{}{
		"previous_session_id": previousSessionId,
		"session_id":          client.SessionId,
	})
}

// Envelope wraps an outbound event the way the frontend expects it.
func Envelope(event string, payload interface{}) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": event,
		"data": payload,
	})
	return data
}

// Send delivers an event to every connection of one session. Slow clients
// with a full buffer are dropped rather than blocking the caller.
func (h *Hub) Send(sessionId, event string, payload interface{}) {
	data := Envelope(event, payload)

	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionId]...)
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionId})
			client.Conn.Close()
		}
	}
}

// Broadcast delivers an event to every connected client.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data := Envelope(event, payload)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				client.Conn.Close()
			}
		}
	}
}

// SessionIds lists the sessions with at least one live connection.
func (h *Hub) SessionIds() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}
