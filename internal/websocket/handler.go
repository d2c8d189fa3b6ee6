package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs wires one upgraded connection into the hub. The client stays
// unregistered (Initializing) until the intent handler sees session-init.
func ServeWs(hub *Hub, c *websocket.Conn, intents IntentHandler) {
	client := &Client{Hub: hub, Conn: c, Send: make(chan []byte, 256), intents: intents}

	go client.writePump()
	client.readPump() // runs in the handler goroutine
}
