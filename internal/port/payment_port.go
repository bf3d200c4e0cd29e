package port

import (
	"context"

	"github.com/nikolayk812/bookcheckout/internal/domain"
)

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req domain.PaymentSessionRequest) (domain.PaymentSession, error)
}

// EventVerifier authenticates a raw webhook delivery and decodes it.
type EventVerifier interface {
	ParseEvent(payload []byte, signatureHeader string) (domain.PaymentEvent, error)
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}
