package client

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raynaldi/tabletap/ws"
)

// Message is the real-time channel envelope as received by a listener.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Handler consumes one event's payload.
type Handler func(data json.RawMessage)

// Socket is a supervised listener connection: it dials, serves, and on any
// failure reconnects after a fixed delay until its context is cancelled. A
// periodic PING keeps the connection known-alive.
type Socket struct {
	URL            string
	ReconnectDelay time.Duration
	PingInterval   time.Duration

	dialer *websocket.Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	handlers  map[string][]Handler
}

func NewSocket(wsURL string) *Socket {
	return &Socket{
		URL:            wsURL,
		ReconnectDelay: 3 * time.Second,
		PingInterval:   30 * time.Second,
		dialer:         websocket.DefaultDialer,
		handlers:       make(map[string][]Handler),
	}
}

// Handle registers a handler for one message type. Types without a handler
// are ignored.
func (s *Socket) Handle(msgType string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[msgType] = append(s.handlers[msgType], h)
}

func (s *Socket) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Run blocks, supervising the connection until ctx is cancelled.
func (s *Socket) Run(ctx context.Context) {
	for {
		if err := s.serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("socket disconnected: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.ReconnectDelay):
		}
	}
}

func (s *Socket) serve(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.URL, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.conn = nil
		s.connected = false
		s.mu.Unlock()
		conn.Close()
	}()

	done := make(chan struct{})
	defer close(done)

	// Close unblocks the read loop when the context ends; the liveness ping
	// runs alongside it.
	go func() {
		ticker := time.NewTicker(s.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case <-done:
				return
			case <-ticker.C:
				if err := s.Send(Message{Type: ws.EventPing}); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("error parsing socket message: %v", err)
			continue
		}
		s.dispatch(msg)
	}
}

// Send writes one message to the current connection.
func (s *Socket) Send(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return errors.New("socket not connected")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Socket) dispatch(msg Message) {
	s.mu.Lock()
	handlers := make([]Handler, len(s.handlers[msg.Type]))
	copy(handlers, s.handlers[msg.Type])
	s.mu.Unlock()

	// Unknown types simply have no handlers.
	for _, h := range handlers {
		h(msg.Data)
	}
}
