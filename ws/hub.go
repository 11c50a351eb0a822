package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/raynaldi/tabletap/models"
)

// Message types on the real-time channel. Consumers ignore types they do not
// recognize.
const (
	EventNewOrder          = "NEW_ORDER"
	EventOrderStatusUpdate = "ORDER_STATUS_UPDATE"
	EventPing              = "PING"
	EventPong              = "PONG"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type StatusUpdate struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// Hub holds every open listener connection. All listeners receive all events;
// there is no per-listener filtering, no replay and no delivery confirmation.
type Hub struct {
	clients map[*websocket.Conn]struct{}
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]struct{}),
}

// RegisterClient adds a connection to the listener set.
func RegisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = struct{}{}
}

// UnregisterClient removes a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// ClientCount returns the number of connected listeners.
func ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// BroadcastNewOrder announces a freshly created order, items included.
func BroadcastNewOrder(order models.Order) {
	broadcast(Message{
		Type: EventNewOrder,
		Data: order,
	})
}

// BroadcastOrderStatus announces a status transition for one order.
func BroadcastOrderStatus(orderID uint, status string) {
	broadcast(Message{
		Type: EventOrderStatusUpdate,
		Data: StatusUpdate{OrderID: orderID, Status: status},
	})
}

// Reply sends a message to a single connection. Writes share the hub mutex so
// they never interleave with a broadcast on the same connection.
func Reply(conn *websocket.Conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("Error replying to client: %v", err)
	}
}

// broadcast fans a message out to every listener. Send failures are logged and
// the dead connection dropped; they never fail the originating request.
func broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
