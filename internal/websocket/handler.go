package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one websocket connection to completion. The write pump gets
// its own goroutine; the read pump occupies the handler goroutine.
func ServeWs(relay *Relay, conn *websocket.Conn) {
	client := NewClient(conn)

	go client.writePump()
	relay.Connect(client)
	client.readPump(relay)
	relay.Disconnect(client)
}
