package websocket

import (
	"encoding/json"
	"time"

	"deal-alert-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// IntentHandler receives every parsed client intent. The handler is
// responsible for attaching the client to the hub once a session-init
// arrives.
type IntentHandler interface {
	HandleIntent(client *Client, intent dto.Intent)
	HandleDisconnect(client *Client)
}

// Client is a middleman between one websocket connection and the hub. It
// starts in the Initializing state (SessionId empty) and becomes Active when
// the session-init intent binds it to a session.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	// SessionId is empty until session-init is processed.
	SessionId string

	// Buffered channel of outbound messages.
	Send chan []byte

	intents IntentHandler
}

// Activate registers the client under its session id. Call exactly once,
// after SessionId is set.
func (c *Client) Activate() {
	c.Hub.register <- c
}

// SendEvent queues one event on this specific connection, bypassing the hub
// (used before the client is registered, e.g. the initial-view reply).
func (c *Client) SendEvent(event string, payload interface{}) {
	select {
	case c.Send <- Envelope(event, payload):
	default:
		c.Conn.Close()
	}
}

// readPump pumps intents from the websocket connection to the handler.
func (c *Client) readPump() {
	defer func() {
		c.intents.HandleDisconnect(c)
		if c.SessionId != "" {
			c.Hub.unregister <- c
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"session_id": c.SessionId, "error": err.Error()})
			}
			break
		}

		var intent dto.Intent
		if err := json.Unmarshal(message, &intent); err != nil {
			c.Hub.logger.Warn("Client", "Malformed intent dropped", map[string]interface{}{"session_id": c.SessionId, "error": err.Error()})
			continue
		}
		c.intents.HandleIntent(c, intent)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush any queued messages into the same frame batch.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Close()
				w, err = c.Conn.NextWriter(websocket.TextMessage)
				if err != nil {
					return
				}
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
