package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcheckout/internal/port"
)

type unitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) port.UnitOfWork {
	return &unitOfWork{pool: pool}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores port.Stores) error) error {
	_, err := inTx(ctx, u.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(ctx, txStores{tx: tx})
	})
	return err
}

// txStores hands out repositories that share one transaction, so none of them opens its own.
type txStores struct {
	tx pgx.Tx
}

func (s txStores) Orders() port.OrderRepository {
	return NewOrderWithTx(s.tx)
}

func (s txStores) Carts() port.CartRepository {
	return NewCartWithTx(s.tx)
}

func (s txStores) Wishlists() port.WishlistRepository {
	return NewWishlistWithTx(s.tx)
}

func (s txStores) PaymentEvents() port.PaymentEventRepository {
	return NewPaymentEventWithTx(s.tx)
}

func (s txStores) Outbox() port.OutboxRepository {
	return NewOutboxWithTx(s.tx)
}
