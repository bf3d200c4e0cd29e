package port

import (
	"context"

	"github.com/google/uuid"
)

type PaymentEventRepository interface {
	// MarkProcessed records the event id, it returns false if the id was already recorded.
	MarkProcessed(ctx context.Context, eventID, eventType string, orderID uuid.UUID) (bool, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error
}

// Stores gives access to repositories bound to one transaction.
type Stores interface {
	Orders() OrderRepository
	Carts() CartRepository
	Wishlists() WishlistRepository
	PaymentEvents() PaymentEventRepository
	Outbox() OutboxRepository
}

// UnitOfWork runs fn in a transaction which is committed if fn returns nil and rolled back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
