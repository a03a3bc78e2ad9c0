package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs joins the connection to its thread room and runs the pumps.
// onQuery is called for each question received on the socket.
func ServeWs(hub *Hub, c *websocket.Conn, threadID string, onQuery func(threadID, content string)) {
	client := &Client{Hub: hub, Conn: c, ThreadID: threadID, Send: make(chan []byte, 256), OnQuery: onQuery}
	client.Hub.Register(client)

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
