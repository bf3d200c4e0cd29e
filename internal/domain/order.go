package domain

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID        uuid.UUID
	UserID    int64
	AddressID int64
	Status    OrderStatus
	Total     Money
	// ReceiptURL is set when the order is completed.
	ReceiptURL       *url.URL
	PaymentSessionID string
	Books            []OrderBook

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderBook is a purchased line. Price is the catalog price at materialization time
// and never changes afterwards.
type OrderBook struct {
	BookID   int64
	Quantity int
	Price    decimal.Decimal
}

func (b OrderBook) LineTotal() decimal.Decimal {
	return b.Price.Mul(decimal.NewFromInt(int64(b.Quantity)))
}
