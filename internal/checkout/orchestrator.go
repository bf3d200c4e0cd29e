package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/metrics"
	"github.com/nikolayk812/bookcheckout/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Orchestrator struct {
	orders    port.OrderRepository
	users     port.UserRepository
	addresses port.AddressRepository
	gateway   port.PaymentGateway

	currency       currency.Unit
	gatewayTimeout time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Deps struct {
	Orders    port.OrderRepository
	Users     port.UserRepository
	Addresses port.AddressRepository
	Gateway   port.PaymentGateway
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

func NewOrchestrator(deps Deps, cur currency.Unit, gatewayTimeout time.Duration) (*Orchestrator, error) {
	if deps.Orders == nil || deps.Users == nil || deps.Addresses == nil || deps.Gateway == nil {
		return nil, errors.New("missing dependency")
	}
	if gatewayTimeout <= 0 {
		return nil, errors.New("gateway timeout must be positive")
	}

	return &Orchestrator{
		orders:         deps.Orders,
		users:          deps.Users,
		addresses:      deps.Addresses,
		gateway:        deps.Gateway,
		currency:       cur,
		gatewayTimeout: gatewayTimeout,
		logger:         lo.Ternary(deps.Logger != nil, deps.Logger, slog.Default()),
		metrics:        deps.Metrics,
	}, nil
}

// CreateCheckoutSession persists a PENDING order and opens a hosted payment session for it.
// The order is kept when the gateway call fails.
func (o *Orchestrator) CreateCheckoutSession(ctx context.Context, userID int64, req domain.CheckoutRequest, caller domain.CallerIdentity) (domain.CheckoutSession, error) {
	var cs domain.CheckoutSession

	if v := authorize(caller, userID); !v.OK() {
		o.metrics.CheckoutOutcome("forbidden")
		o.logger.Info("checkout rejected", "user_id", userID, "caller_id", caller.ID, "reason", v.Reason)
		return cs, v.Err()
	}

	if v := validate(req); !v.OK() {
		o.metrics.CheckoutOutcome("bad_request")
		o.logger.Info("checkout rejected", "user_id", userID, "reason", v.Reason)
		return cs, v.Err()
	}

	address, err := o.addresses.GetAddress(ctx, userID, req.AddressID)
	if err != nil {
		o.metrics.CheckoutOutcome("bad_request")
		return cs, fmt.Errorf("addresses.GetAddress: %w", err)
	}

	user, err := o.users.GetUser(ctx, userID)
	if err != nil {
		o.metrics.CheckoutOutcome("bad_request")
		return cs, fmt.Errorf("users.GetUser: %w", err)
	}

	order, err := o.orders.InsertPendingOrder(ctx, domain.Order{
		UserID:    user.ID,
		AddressID: address.ID,
		Status:    domain.OrderStatusPending,
		Total:     domain.Money{Amount: decimal.Zero, Currency: o.currency},
	})
	if err != nil {
		o.metrics.CheckoutOutcome("error")
		return cs, fmt.Errorf("orders.InsertPendingOrder: %w", err)
	}

	logger := o.logger.With("order_id", order.ID, "user_id", user.ID)

	session, err := o.openSession(ctx, o.sessionRequest(order, user, req))
	if err != nil {
		o.metrics.CheckoutOutcome("gateway_error")
		logger.Warn("payment session failed, order left pending", "err", err)
		return cs, err
	}

	if err := o.orders.AttachPaymentSession(ctx, order.ID, session.ID); err != nil {
		logger.Error("attach payment session", "session_id", session.ID, "err", err)
	}

	o.metrics.CheckoutOutcome("created")
	logger.Info("checkout session created", "session_id", session.ID)

	return domain.CheckoutSession{
		OrderID:    order.ID,
		SessionID:  session.ID,
		URL:        session.URL,
		SuccessURL: session.SuccessURL,
		CancelURL:  session.CancelURL,
	}, nil
}

func (o *Orchestrator) openSession(ctx context.Context, req domain.PaymentSessionRequest) (domain.PaymentSession, error) {
	ctx, cancel := context.WithTimeout(ctx, o.gatewayTimeout)
	defer cancel()

	start := time.Now()
	session, err := o.gateway.CreateCheckoutSession(ctx, req)
	o.metrics.ObserveGateway(time.Since(start))

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return session, fmt.Errorf("%w: %w", domain.ErrGatewayTimeout, err)
		}
		return session, fmt.Errorf("%w: %w", domain.ErrPaymentGateway, err)
	}

	return session, nil
}

func (o *Orchestrator) sessionRequest(order domain.Order, user domain.User, req domain.CheckoutRequest) domain.PaymentSessionRequest {
	lines := lo.Map(req.CartItems, func(item domain.CheckoutItem, _ int) domain.PaymentLine {
		return domain.PaymentLine{
			Name:      *item.Book.Title,
			ImageURL:  *item.Book.Image,
			UnitPrice: domain.Money{Amount: *item.Book.Price, Currency: o.currency},
			Quantity:  item.Quantity,
		}
	})

	return domain.PaymentSessionRequest{
		Lines:         lines,
		CustomerID:    user.PaymentCustomerID,
		CustomerEmail: user.Email,
		Correlation: domain.Correlation{
			OrderID:   order.ID,
			UserID:    order.UserID,
			AddressID: order.AddressID,
		},
	}
}
