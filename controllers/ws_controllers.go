package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/raynaldi/tabletap/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler -> persistent real-time channel. Customers track their order,
// staff watch the queue; both receive the same event stream.
func WSHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ws.RegisterClient(conn)
	defer ws.UnregisterClient(conn)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg ws.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case ws.EventPing:
			ws.Reply(conn, ws.Message{Type: ws.EventPong})
		default:
			// Unknown types are ignored, not errors.
		}
	}
}
