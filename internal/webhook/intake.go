package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/metrics"
	"github.com/nikolayk812/bookcheckout/internal/port"
)

type Materializer interface {
	MaterializePayment(ctx context.Context, event domain.PaymentEvent) (domain.Order, error)
}

// Intake authenticates payment callbacks and hands succeeded payments to the materializer.
type Intake struct {
	verifier     port.EventVerifier
	materializer Materializer
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewIntake(verifier port.EventVerifier, materializer Materializer, logger *slog.Logger, m *metrics.Metrics) *Intake {
	return &Intake{
		verifier:     verifier,
		materializer: materializer,
		logger:       logger,
		metrics:      m,
	}
}

// HandleWebhook needs the body exactly as received, a re-encoded body fails verification.
func (i *Intake) HandleWebhook(ctx context.Context, signatureHeader string, payload []byte) error {
	if signatureHeader == "" {
		i.metrics.WebhookOutcome("invalid_signature")
		i.logger.Warn("webhook rejected", "reason", "missing signature header")
		return fmt.Errorf("missing signature header: %w", domain.ErrInvalidSignature)
	}

	event, err := i.verifier.ParseEvent(payload, signatureHeader)
	if err != nil {
		outcome := "invalid_signature"
		if !errors.Is(err, domain.ErrInvalidSignature) {
			outcome = "invalid_payload"
		}
		i.metrics.WebhookOutcome(outcome)
		i.logger.Warn("webhook rejected", "reason", outcome, "err", err)
		return fmt.Errorf("verifier.ParseEvent: %w", err)
	}

	logger := i.logger.With("event_id", event.ID, "event_type", event.Type)

	switch event.Type {
	case domain.PaymentEventSucceeded:
		order, err := i.materializer.MaterializePayment(ctx, event)
		if err != nil {
			i.metrics.WebhookOutcome("failed")
			return fmt.Errorf("materializer.MaterializePayment: %w", err)
		}

		i.metrics.WebhookOutcome("handled")
		logger.Info("payment event handled", "order_id", order.ID, "status", order.Status)
		return nil

	default:
		i.metrics.WebhookOutcome("unhandled")
		logger.Warn("unhandled event type")
		return domain.ErrUnhandledEventType
	}
}
