package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/bookcheckout/internal/db"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/port"
)

type paymentEventRepository struct {
	q *db.Queries
}

// NewPaymentEventWithTx binds the repository to tx. Event markers are only written inside a unit of work.
func NewPaymentEventWithTx(tx pgx.Tx) port.PaymentEventRepository {
	return &paymentEventRepository{q: db.New(tx)}
}

func (r *paymentEventRepository) MarkProcessed(ctx context.Context, eventID, eventType string, orderID uuid.UUID) (bool, error) {
	if eventID == "" {
		return false, errors.New("eventID is empty")
	}

	cmdTag, err := r.q.InsertPaymentEvent(ctx, db.InsertPaymentEventParams{
		EventID:   eventID,
		EventType: eventType,
		OrderID:   orderID,
	})
	if err != nil {
		return false, fmt.Errorf("q.InsertPaymentEvent: %w", translate(err, domain.ErrOrderNotFound))
	}

	return cmdTag.RowsAffected() > 0, nil
}

type outboxRepository struct {
	q *db.Queries
}

func NewOutboxWithTx(tx pgx.Tx) port.OutboxRepository {
	return &outboxRepository{q: db.New(tx)}
}

func (r *outboxRepository) Enqueue(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error {
	if err := r.q.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		EventID:   eventID,
		EventType: eventType,
		Payload:   payload,
	}); err != nil {
		return fmt.Errorf("q.InsertOutboxEvent: %w", translate(err, domain.ErrNotFound))
	}

	return nil
}
