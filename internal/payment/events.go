package payment

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// ParseEvent verifies the signature header against the raw payload and decodes the event.
// Only charge.succeeded is mapped to a domain type, any other event keeps its Stripe type
// so the caller can reject it.
func (g *StripeGateway) ParseEvent(payload []byte, signatureHeader string) (domain.PaymentEvent, error) {
	var pe domain.PaymentEvent

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                g.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return pe, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}

	pe.ID = event.ID

	if event.Type != stripe.EventTypeChargeSucceeded {
		pe.Type = domain.PaymentEventType(event.Type)
		return pe, nil
	}

	if event.Data == nil {
		return pe, fmt.Errorf("%w: event %s has no data", domain.ErrInvalidSignature, event.ID)
	}

	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return pe, fmt.Errorf("%w: json.Unmarshal charge: %w", domain.ErrInvalidSignature, err)
	}

	correlation, err := domain.ParseCorrelation(charge.Metadata)
	if err != nil {
		return pe, domain.NewError(domain.KindBadRequest, "invalid payment metadata: %v", err)
	}

	pe.Type = domain.PaymentEventSucceeded
	pe.Correlation = correlation
	pe.ReceiptURL = charge.ReceiptURL

	return pe, nil
}
