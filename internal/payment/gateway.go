package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/port"
	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

type Config struct {
	APIKey        string
	WebhookSecret string
	// APIURL overrides the Stripe API base URL, empty means the public API.
	APIURL     string
	SuccessURL string
	CancelURL  string
	// Timeout bounds every HTTP call to Stripe.
	Timeout   time.Duration
	Tolerance time.Duration
}

type StripeGateway struct {
	sessions      *session.Client
	webhookSecret string
	successURL    string
	cancelURL     string
	tolerance     time.Duration
	logger        *slog.Logger
}

var (
	_ port.PaymentGateway = (*StripeGateway)(nil)
	_ port.EventVerifier  = (*StripeGateway)(nil)
)

func NewStripeGateway(cfg Config, logger *slog.Logger) (*StripeGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is empty")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("webhook secret is empty")
	}

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     &leveledLogger{logger: logger},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		backendConfig.URL = stripe.String(cfg.APIURL)
	}

	return &StripeGateway{
		sessions: &session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
			Key: cfg.APIKey,
		},
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		tolerance:     cfg.Tolerance,
		logger:        logger,
	}, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req domain.PaymentSessionRequest) (domain.PaymentSession, error) {
	var ps domain.PaymentSession

	if len(req.Lines) == 0 {
		return ps, errors.New("no lines in payment session")
	}

	lineItems := lo.Map(req.Lines, func(line domain.PaymentLine, _ int) *stripe.CheckoutSessionLineItemParams {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		if line.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{line.ImageURL})
		}

		return &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(strings.ToLower(line.UnitPrice.Currency.String())),
				UnitAmount:  stripe.Int64(line.UnitPrice.MinorUnits()),
				ProductData: productData,
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		}
	})

	metadata := req.Correlation.Metadata()

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
		// the charge events carry the payment intent metadata, not the session one
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx

	switch {
	case req.CustomerID != "":
		params.Customer = stripe.String(req.CustomerID)
	case req.CustomerEmail != "":
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	s, err := g.sessions.New(params)
	if err != nil {
		return ps, fmt.Errorf("sessions.New: %w", err)
	}

	return domain.PaymentSession{
		ID:         s.ID,
		URL:        s.URL,
		SuccessURL: s.SuccessURL,
		CancelURL:  s.CancelURL,
	}, nil
}

// leveledLogger routes stripe-go client logs to slog.
type leveledLogger struct {
	logger *slog.Logger
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Infof(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
