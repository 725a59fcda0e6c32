package domain

import "time"

type OrderPlacedEvent struct {
	EventID   string      `json:"event_id"`
	OrderID   int64       `json:"order_id"`
	UserID    int64       `json:"user_id"`
	Lines     []OrderLine `json:"lines"`
	Total     Money       `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}

const EventTypeOrderPlaced = "order.placed"

func (OrderPlacedEvent) EventType() string { return EventTypeOrderPlaced }
