package client

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/ws"
)

var stageByStatus = map[string]int{
	models.StatusPending:   0,
	models.StatusPreparing: 1,
	models.StatusReady:     2,
	models.StatusServed:    3,
}

// OrderTracker mirrors the live state of one order for the customer who
// placed it. Broadcast events are the primary source; a fixed-interval
// re-fetch by order number corrects for missed or out-of-order events.
type OrderTracker struct {
	api          *API
	orderNumber  string
	PollInterval time.Duration

	mu      sync.RWMutex
	current *models.Order
}

func NewOrderTracker(api *API, orderNumber string) *OrderTracker {
	return &OrderTracker{
		api:          api,
		orderNumber:  orderNumber,
		PollInterval: 10 * time.Second,
	}
}

// Attach subscribes the tracker to status events on the socket. Events for
// other orders are discarded.
func (t *OrderTracker) Attach(sock *Socket) {
	sock.Handle(ws.EventOrderStatusUpdate, func(data json.RawMessage) {
		var upd ws.StatusUpdate
		if err := json.Unmarshal(data, &upd); err != nil {
			return
		}

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.current != nil && t.current.ID == upd.OrderID {
			t.current.Status = upd.Status
		}
	})
}

// Run fetches immediately, then re-fetches every PollInterval regardless of
// socket state, until ctx is cancelled.
func (t *OrderTracker) Run(ctx context.Context) {
	if err := t.Refresh(ctx); err != nil {
		log.Printf("order tracker refresh: %v", err)
	}

	ticker := time.NewTicker(t.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Refresh(ctx); err != nil {
				// Keep the last-known state and try again next tick.
				log.Printf("order tracker refresh: %v", err)
			}
		}
	}
}

// Refresh re-fetches the order by its number.
func (t *OrderTracker) Refresh(ctx context.Context) error {
	order, err := t.api.GetOrderByNumber(ctx, t.orderNumber)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.current = order
	t.mu.Unlock()
	return nil
}

// Order returns a copy of the last-known order, or nil before the first fetch.
func (t *OrderTracker) Order() *models.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return nil
	}
	copied := *t.current
	return &copied
}

func (t *OrderTracker) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return ""
	}
	return t.current.Status
}

// Stage maps the forward progression pending, preparing, ready, served onto
// 0..3 for the progress indicator. Cancelled (and unknown) report -1; it is
// shown as a distinct terminal badge outside the progression.
func (t *OrderTracker) Stage() int {
	stage, ok := stageByStatus[t.Status()]
	if !ok {
		return -1
	}
	return stage
}

func (t *OrderTracker) Cancelled() bool {
	return t.Status() == models.StatusCancelled
}
