package models

import "time"

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published after an order and its notification commit
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	MerchantID  int64   `json:"merchant_id"`
	ProductName string  `json:"product_name"`
	TotalPrice  float64 `json:"total_price"`
}

// OrderStatusChangedEvent published when a merchant moves an order between
// statuses. Consumed by the notification worker.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    int64  `json:"order_id"`
	MerchantID int64  `json:"merchant_id"`
	NewStatus  string `json:"new_status"`
}
