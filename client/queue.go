package client

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/raynaldi/tabletap/models"
	"github.com/raynaldi/tabletap/ws"
)

var nextStatus = map[string]string{
	models.StatusPending:   models.StatusPreparing,
	models.StatusPreparing: models.StatusReady,
	models.StatusReady:     models.StatusServed,
}

// NextStatus returns the next step in the kitchen workflow for the given
// status. Served and cancelled orders have no next step.
func NextStatus(status string) (string, bool) {
	next, ok := nextStatus[status]
	return next, ok
}

// StaffQueue holds the kitchen's view of the order list. Any broadcast event
// triggers a full refetch, so the queue never applies partial updates.
type StaffQueue struct {
	api *API

	// Filter narrows the refetch to one status; empty means all orders.
	Filter string

	mu     sync.RWMutex
	orders []models.Order
}

func NewStaffQueue(api *API) *StaffQueue {
	return &StaffQueue{api: api}
}

// Attach refreshes the queue whenever an order is created or changes status.
func (q *StaffQueue) Attach(sock *Socket) {
	refetch := func(json.RawMessage) {
		if err := q.Refresh(context.Background()); err != nil {
			log.Printf("staff queue refresh: %v", err)
		}
	}
	sock.Handle(ws.EventNewOrder, refetch)
	sock.Handle(ws.EventOrderStatusUpdate, refetch)
}

func (q *StaffQueue) Refresh(ctx context.Context) error {
	orders, err := q.api.ListOrders(ctx, q.Filter)
	if err != nil {
		return err
	}

	q.mu.Lock()
	q.orders = orders
	q.mu.Unlock()
	return nil
}

// Orders returns a copy of the current order list, newest first.
func (q *StaffQueue) Orders() []models.Order {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]models.Order, len(q.orders))
	copy(out, q.orders)
	return out
}

// Counts returns the number of orders per status in the current list.
func (q *StaffQueue) Counts() map[string]int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	counts := make(map[string]int)
	for _, o := range q.orders {
		counts[o.Status]++
	}
	return counts
}

// AdvanceNext moves an order one step forward in the workflow and refreshes
// the queue. Orders with no next step (served, cancelled) are left untouched.
func (q *StaffQueue) AdvanceNext(ctx context.Context, order models.Order) error {
	next, ok := NextStatus(order.Status)
	if !ok {
		return nil
	}
	if _, err := q.api.UpdateOrderStatus(ctx, order.ID, next); err != nil {
		return err
	}
	return q.Refresh(ctx)
}
