package messaging

import "time"

const RoutingKeyOrderCompleted = "order.completed"

// OrderCompletedEvent is published once per materialized order, for the notification service.
type OrderCompletedEvent struct {
	EventID     string               `json:"event_id"`
	OrderID     string               `json:"order_id"`
	UserID      int64                `json:"user_id"`
	AddressID   int64                `json:"address_id"`
	Total       string               `json:"total"`
	Currency    string               `json:"currency"`
	ReceiptURL  string               `json:"receipt_url,omitempty"`
	Books       []OrderCompletedBook `json:"books"`
	CompletedAt time.Time            `json:"completed_at"`
}

type OrderCompletedBook struct {
	BookID   int64  `json:"book_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}
