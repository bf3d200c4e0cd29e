package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcheckout/internal/db"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/port"
	"github.com/samber/lo"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCartForUpdate(ctx context.Context, userID int64) (domain.Cart, error) {
	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Cart, error) {
		c := domain.Cart{UserID: userID}

		dbCart, err := q.GetCartByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c, nil
			}
			return c, fmt.Errorf("q.GetCartByUserID: %w", err)
		}
		c.ID = dbCart.ID

		rows, err := q.GetCartItemsForUpdate(ctx, dbCart.ID)
		if err != nil {
			return c, fmt.Errorf("q.GetCartItemsForUpdate: %w", err)
		}

		c.Items = lo.Map(rows, func(row db.GetCartItemsForUpdateRow, _ int) domain.CartItem {
			return domain.CartItem{
				BookID:   row.BookID,
				Quantity: int(row.Quantity),
				Price:    row.Price,
			}
		})

		return c, nil
	})
}

func (r *cartRepository) AddItem(ctx context.Context, userID, bookID int64, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	return withTxNoResult(ctx, r.pool, r.q, func(q *db.Queries) error {
		cartID, err := q.UpsertCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("q.UpsertCart: %w", translate(err, domain.ErrNotFound))
		}

		arg := db.AddCartBookParams{
			CartID:   cartID,
			BookID:   bookID,
			Quantity: int32(quantity),
		}
		if err := q.AddCartBook(ctx, arg); err != nil {
			return fmt.Errorf("q.AddCartBook: %w", translate(err, domain.ErrNotFound))
		}

		return nil
	})
}

func (r *cartRepository) DeleteItems(ctx context.Context, cartID int64, bookIDs []int64) (int64, error) {
	if len(bookIDs) == 0 {
		return 0, nil
	}

	cmdTag, err := r.q.DeleteCartBooks(ctx, db.DeleteCartBooksParams{
		CartID:  cartID,
		BookIds: bookIDs,
	})
	if err != nil {
		return 0, fmt.Errorf("q.DeleteCartBooks: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
