package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	// GetOrderForUpdate locks the order row until the surrounding transaction ends.
	GetOrderForUpdate(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	InsertPendingOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	AttachPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error

	// CompleteOrder moves a PENDING order to COMPLETED, it returns false if the order was not PENDING.
	CompleteOrder(ctx context.Context, orderID uuid.UUID, total decimal.Decimal, receiptURL string) (bool, error)
	InsertOrderBooks(ctx context.Context, orderID uuid.UUID, books []domain.OrderBook) error
}
