package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcheckout/internal/db"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Order, error) {
		return getOrder(ctx, q, orderID, q.GetOrder)
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetOrderForUpdate(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	if r.pool != nil {
		return domain.Order{}, errors.New("GetOrderForUpdate requires a transaction")
	}

	return getOrder(ctx, r.q, orderID, r.q.GetOrderForUpdate)
}

func getOrder(ctx context.Context, q *db.Queries, orderID uuid.UUID, get func(context.Context, uuid.UUID) (db.Order, error)) (domain.Order, error) {
	var o domain.Order

	dbOrder, err := get(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("q.GetOrder: %w", translate(err, domain.ErrOrderNotFound))
	}

	dbOrderBooks, err := q.GetOrderBooks(ctx, []uuid.UUID{orderID})
	if err != nil {
		return o, fmt.Errorf("q.GetOrderBooks: %w", err)
	}

	domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderBooks)
	if err != nil {
		return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
	}

	return domainOrder, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	dbOrders, err := r.q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("q.SearchOrders: %w", err)
	}

	if len(dbOrders) == 0 {
		return nil, nil
	}

	orderIDs := lo.Map(dbOrders, func(o db.Order, _ int) uuid.UUID {
		return o.ID
	})

	dbOrderBooks, err := r.q.GetOrderBooks(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("q.GetOrderBooks: %w", err)
	}

	booksByOrder := lo.GroupBy(dbOrderBooks, func(b db.OrderBook) uuid.UUID {
		return b.OrderID
	})

	orders := make([]domain.Order, 0, len(dbOrders))
	for _, dbOrder := range dbOrders {
		order, err := mapDBOrderToDomain(dbOrder, booksByOrder[dbOrder.ID])
		if err != nil {
			return nil, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *orderRepository) InsertPendingOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if order.UserID <= 0 {
		return o, errors.New("userID is empty")
	}
	if order.AddressID <= 0 {
		return o, errors.New("addressID is empty")
	}
	if order.Total.Amount.IsNegative() {
		return o, errors.New("total is negative")
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	dbOrder, err := r.q.InsertOrder(ctx, db.InsertOrderParams{
		ID:        order.ID,
		UserID:    order.UserID,
		AddressID: order.AddressID,
		Status:    string(domain.OrderStatusPending),
		Total:     order.Total.Amount,
		Currency:  order.Total.Currency.String(),
	})
	if err != nil {
		return o, fmt.Errorf("q.InsertOrder: %w", translate(err, domain.ErrOrderNotFound))
	}

	inserted, err := mapDBOrderToDomain(dbOrder, nil)
	if err != nil {
		return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
	}

	return inserted, nil
}

func (r *orderRepository) AttachPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	cmdTag, err := r.q.UpdateOrderPaymentSession(ctx, db.UpdateOrderPaymentSessionParams{
		ID:               orderID,
		PaymentSessionID: lo.EmptyableToPtr(sessionID),
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderPaymentSession: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateOrderPaymentSession: %w", domain.ErrOrderNotFound)
	}

	return nil
}

func (r *orderRepository) CompleteOrder(ctx context.Context, orderID uuid.UUID, total decimal.Decimal, receiptURL string) (bool, error) {
	if orderID == uuid.Nil {
		return false, fmt.Errorf("orderID is empty")
	}
	if total.IsNegative() {
		return false, fmt.Errorf("total is negative")
	}

	cmdTag, err := r.q.CompleteOrder(ctx, db.CompleteOrderParams{
		ID:         orderID,
		Total:      total,
		ReceiptUrl: lo.EmptyableToPtr(receiptURL),
	})
	if err != nil {
		return false, fmt.Errorf("q.CompleteOrder: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *orderRepository) InsertOrderBooks(ctx context.Context, orderID uuid.UUID, books []domain.OrderBook) error {
	if len(books) == 0 {
		return errors.New("no books in order")
	}

	return withTxNoResult(ctx, r.pool, r.q, func(q *db.Queries) error {
		// TODO: switch to pgx.Batch once orders get large enough for round trips to matter
		for _, book := range books {
			if book.Quantity <= 0 {
				return fmt.Errorf("book[%d]: quantity must be positive", book.BookID)
			}

			arg := db.InsertOrderBookParams{
				OrderID:  orderID,
				BookID:   book.BookID,
				Quantity: int32(book.Quantity),
				Price:    book.Price,
			}
			if err := q.InsertOrderBook(ctx, arg); err != nil {
				return fmt.Errorf("q.InsertOrderBook: %w", translate(err, domain.ErrOrderNotFound))
			}
		}
		return nil
	})
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	statuses := lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})

	createdAfter, createdBefore := filterBounds(filter.CreatedAt)

	return db.SearchOrdersParams{
		Ids:           nilSliceIfEmpty(filter.IDs),
		UserIds:       nilSliceIfEmpty(filter.UserIDs),
		Statuses:      nilSliceIfEmpty(statuses),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderBooks []db.OrderBook) (domain.Order, error) {
	var o domain.Order

	parsedCurrency, err := currency.ParseISO(dbOrder.Currency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", dbOrder.Currency, err)
	}

	status, err := domain.ToOrderStatus(dbOrder.Status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", dbOrder.Status, err)
	}

	var receiptURL *url.URL
	if lo.FromPtr(dbOrder.ReceiptUrl) != "" {
		receiptURL, err = url.Parse(*dbOrder.ReceiptUrl)
		if err != nil {
			return o, fmt.Errorf("url.Parse[%s]: %w", *dbOrder.ReceiptUrl, err)
		}
	}

	books := lo.Map(dbOrderBooks, func(b db.OrderBook, _ int) domain.OrderBook {
		return domain.OrderBook{
			BookID:   b.BookID,
			Quantity: int(b.Quantity),
			Price:    b.Price,
		}
	})

	return domain.Order{
		ID:        dbOrder.ID,
		UserID:    dbOrder.UserID,
		AddressID: dbOrder.AddressID,
		Status:    status,
		Total: domain.Money{
			Amount:   dbOrder.Total,
			Currency: parsedCurrency,
		},
		ReceiptURL:       receiptURL,
		PaymentSessionID: lo.FromPtr(dbOrder.PaymentSessionID),
		Books:            books,
		CreatedAt:        dbOrder.CreatedAt,
		UpdatedAt:        dbOrder.UpdatedAt,
	}, nil
}
