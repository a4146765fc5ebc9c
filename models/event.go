package models

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Type       string      `json:"type"`
	OrderID    int64       `json:"order_id"`
	Status     OrderStatus `json:"status_id"`
	StatusName string      `json:"status_name"`
	UserName   string      `json:"user_name,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type OutboxRecord struct {
	ID        int64
	EventID   string
	Topic     string
	Key       string
	Payload   json.RawMessage
	CreatedAt time.Time
	SentAt    *time.Time
}
