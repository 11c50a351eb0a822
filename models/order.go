package models

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// Order statuses. Transitions are validated for membership only; the staff UI
// drives the forward progression pending -> preparing -> ready -> served, with
// cancelled reachable as a terminal badge.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusCancelled = "cancelled"
)

var orderStatuses = map[string]bool{
	StatusPending:   true,
	StatusPreparing: true,
	StatusReady:     true,
	StatusServed:    true,
	StatusCancelled: true,
}

// IsValidStatus -> membership check against the known status labels
func IsValidStatus(s string) bool {
	return orderStatuses[s]
}

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	TableID       *uint       `gorm:"index" json:"table_id,omitempty"`
	Table         *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	CustomerID    *uint       `gorm:"index" json:"customer_id,omitempty"`
	Customer      *User       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status        string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount   float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Notes         string      `gorm:"type:text" json:"notes"`
	EstimatedTime *int        `json:"estimated_time,omitempty"` // minutes
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems    []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

var orderSeq atomic.Uint64

// NewOrderNumber generates a human-facing order number. The millisecond
// timestamp keeps numbers roughly sortable; the counter suffix avoids
// same-millisecond collisions.
func NewOrderNumber() string {
	seq := orderSeq.Add(1) % 10000
	return fmt.Sprintf("ORD-%d-%04d", time.Now().UnixMilli(), seq)
}

// Cents converts a decimal amount to integer cents for exact comparison.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// IsMoney reports whether v is a non-negative amount with at most two
// decimal places of precision.
func IsMoney(v float64) bool {
	return v >= 0 && math.Abs(v*100-math.Round(v*100)) < 1e-6
}
