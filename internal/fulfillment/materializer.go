package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/messaging"
	"github.com/nikolayk812/bookcheckout/internal/metrics"
	"github.com/nikolayk812/bookcheckout/internal/port"
	"github.com/samber/lo"
)

type Materializer struct {
	uow     port.UnitOfWork
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewMaterializer(uow port.UnitOfWork, logger *slog.Logger, m *metrics.Metrics) *Materializer {
	return &Materializer{
		uow:     uow,
		logger:  logger,
		metrics: m,
	}
}

// MaterializePayment completes the order correlated with a verified payment event.
// Order completion, order lines, cart and wishlist cleanup and the outbox row share one transaction.
// A repeated delivery for an already completed order returns that order without changes.
func (m *Materializer) MaterializePayment(ctx context.Context, event domain.PaymentEvent) (domain.Order, error) {
	if event.Type != domain.PaymentEventSucceeded {
		return domain.Order{}, domain.ErrUnhandledEventType
	}

	c := event.Correlation
	logger := m.logger.With("event_id", event.ID, "order_id", c.OrderID, "user_id", c.UserID)

	var (
		result    domain.Order
		duplicate bool
	)

	err := m.uow.Do(ctx, func(ctx context.Context, stores port.Stores) error {
		// the row lock serializes concurrent deliveries for the same order
		order, err := stores.Orders().GetOrderForUpdate(ctx, c.OrderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrderForUpdate: %w", err)
		}

		if order.Status == domain.OrderStatusCompleted {
			result, duplicate = order, true
			return nil
		}
		if !order.Status.CanTransitionTo(domain.OrderStatusCompleted) {
			return fmt.Errorf("order is %s: %w", order.Status, domain.ErrInvalidTransition)
		}
		if order.UserID != c.UserID || order.AddressID != c.AddressID {
			return domain.NewError(domain.KindBadRequest, "payment metadata does not match order")
		}

		fresh, err := stores.PaymentEvents().MarkProcessed(ctx, event.ID, string(event.Type), order.ID)
		if err != nil {
			return fmt.Errorf("paymentEvents.MarkProcessed: %w", err)
		}
		if !fresh {
			result, duplicate = order, true
			return nil
		}

		cart, err := stores.Carts().GetCartForUpdate(ctx, order.UserID)
		if err != nil {
			return fmt.Errorf("carts.GetCartForUpdate: %w", err)
		}
		if len(cart.Items) == 0 {
			return domain.ErrCartEmpty
		}

		total := cart.Total()

		completed, err := stores.Orders().CompleteOrder(ctx, order.ID, total, event.ReceiptURL)
		if err != nil {
			return fmt.Errorf("orders.CompleteOrder: %w", err)
		}
		if !completed {
			return fmt.Errorf("orders.CompleteOrder: %w", domain.ErrInvalidTransition)
		}

		books := lo.Map(cart.Items, func(item domain.CartItem, _ int) domain.OrderBook {
			return domain.OrderBook{
				BookID:   item.BookID,
				Quantity: item.Quantity,
				Price:    item.Price,
			}
		})

		if err := stores.Orders().InsertOrderBooks(ctx, order.ID, books); err != nil {
			return fmt.Errorf("orders.InsertOrderBooks: %w", err)
		}

		bookIDs := cart.BookIDs()

		if _, err := stores.Carts().DeleteItems(ctx, cart.ID, bookIDs); err != nil {
			return fmt.Errorf("carts.DeleteItems: %w", err)
		}

		if _, err := stores.Wishlists().DeleteBooks(ctx, order.UserID, bookIDs); err != nil {
			return fmt.Errorf("wishlists.DeleteBooks: %w", err)
		}

		result, err = stores.Orders().GetOrderForUpdate(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("orders.GetOrderForUpdate: %w", err)
		}

		if err := enqueueCompleted(ctx, stores.Outbox(), result); err != nil {
			return fmt.Errorf("enqueueCompleted: %w", err)
		}

		return nil
	})
	if err != nil {
		m.metrics.MaterializationResult(resultLabel(err))
		logger.Warn("payment not materialized", "kind", domain.KindOf(err).String(), "err", err)
		return domain.Order{}, err
	}

	if duplicate {
		m.metrics.MaterializationResult("duplicate")
		logger.Info("payment already materialized", "duplicate", true, "status", result.Status)
		return result, nil
	}

	m.metrics.MaterializationResult("completed")
	logger.Info("order completed", "total", result.Total.Amount.String(), "books", len(result.Books))

	return result, nil
}

func enqueueCompleted(ctx context.Context, outbox port.OutboxRepository, order domain.Order) error {
	eventID := uuid.New()

	event := messaging.OrderCompletedEvent{
		EventID:   eventID.String(),
		OrderID:   order.ID.String(),
		UserID:    order.UserID,
		AddressID: order.AddressID,
		Total:     order.Total.Amount.StringFixed(2),
		Currency:  order.Total.Currency.String(),
		Books: lo.Map(order.Books, func(b domain.OrderBook, _ int) messaging.OrderCompletedBook {
			return messaging.OrderCompletedBook{
				BookID:   b.BookID,
				Quantity: b.Quantity,
				Price:    b.Price.StringFixed(2),
			}
		}),
		CompletedAt: order.UpdatedAt.UTC(),
	}
	if order.ReceiptURL != nil {
		event.ReceiptURL = order.ReceiptURL.String()
	}
	if event.CompletedAt.IsZero() {
		event.CompletedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	return outbox.Enqueue(ctx, eventID, messaging.RoutingKeyOrderCompleted, payload)
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrCartEmpty):
		return "cart_empty"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case domain.KindOf(err) == domain.KindInternal:
		return "error"
	default:
		return "rejected"
	}
}
