package checkout_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/shopspring/decimal"
)

var errNotImplemented = errors.New("not implemented")

type fakeOrders struct {
	mu        sync.Mutex
	inserted  []domain.Order
	sessions  map[uuid.UUID]string
	insertErr error
	attachErr error
}

func (f *fakeOrders) GetOrder(context.Context, uuid.UUID) (domain.Order, error) {
	return domain.Order{}, errNotImplemented
}

func (f *fakeOrders) GetOrderForUpdate(context.Context, uuid.UUID) (domain.Order, error) {
	return domain.Order{}, errNotImplemented
}

func (f *fakeOrders) SearchOrders(context.Context, domain.OrderFilter) ([]domain.Order, error) {
	return nil, errNotImplemented
}

func (f *fakeOrders) InsertPendingOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	if f.insertErr != nil {
		return domain.Order{}, f.insertErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	order.ID = uuid.New()
	order.Status = domain.OrderStatusPending
	f.inserted = append(f.inserted, order)

	return order, nil
}

func (f *fakeOrders) AttachPaymentSession(_ context.Context, orderID uuid.UUID, sessionID string) error {
	if f.attachErr != nil {
		return f.attachErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sessions == nil {
		f.sessions = make(map[uuid.UUID]string)
	}
	f.sessions[orderID] = sessionID

	return nil
}

func (f *fakeOrders) CompleteOrder(context.Context, uuid.UUID, decimal.Decimal, string) (bool, error) {
	return false, errNotImplemented
}

func (f *fakeOrders) InsertOrderBooks(context.Context, uuid.UUID, []domain.OrderBook) error {
	return errNotImplemented
}

type fakeUsers struct {
	users map[int64]domain.User
}

func (f *fakeUsers) GetUser(_ context.Context, userID int64) (domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return u, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeAddresses struct {
	addresses []domain.Address
}

func (f *fakeAddresses) GetAddress(_ context.Context, userID, addressID int64) (domain.Address, error) {
	for _, a := range f.addresses {
		if a.ID == addressID && a.UserID == userID {
			return a, nil
		}
	}
	return domain.Address{}, domain.ErrAddressNotFound
}

type fakeGateway struct {
	mu       sync.Mutex
	requests []domain.PaymentSessionRequest
	err      error
	// block makes the call wait for the context to end
	block bool
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, req domain.PaymentSessionRequest) (domain.PaymentSession, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return domain.PaymentSession{}, ctx.Err()
	}
	if f.err != nil {
		return domain.PaymentSession{}, f.err
	}

	return domain.PaymentSession{
		ID:         "cs_test_1",
		URL:        "https://checkout.stripe.com/c/pay/cs_test_1",
		SuccessURL: "https://books.example.com/success",
		CancelURL:  "https://books.example.com/cancel",
	}, nil
}
