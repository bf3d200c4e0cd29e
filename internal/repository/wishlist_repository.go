package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcheckout/internal/db"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/port"
)

type wishlistRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewWishlist(pool *pgxpool.Pool) port.WishlistRepository {
	return &wishlistRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewWishlistWithTx(tx pgx.Tx) port.WishlistRepository {
	return &wishlistRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *wishlistRepository) AddBook(ctx context.Context, userID, bookID int64) error {
	return withTxNoResult(ctx, r.pool, r.q, func(q *db.Queries) error {
		wishlistID, err := q.UpsertWishlist(ctx, userID)
		if err != nil {
			return fmt.Errorf("q.UpsertWishlist: %w", translate(err, domain.ErrNotFound))
		}

		arg := db.AddWishlistBookParams{
			WishlistID: wishlistID,
			BookID:     bookID,
		}
		if err := q.AddWishlistBook(ctx, arg); err != nil {
			return fmt.Errorf("q.AddWishlistBook: %w", translate(err, domain.ErrNotFound))
		}

		return nil
	})
}

func (r *wishlistRepository) GetBookIDs(ctx context.Context, userID int64) ([]int64, error) {
	bookIDs, err := r.q.GetWishlistBookIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("q.GetWishlistBookIDs: %w", err)
	}

	return bookIDs, nil
}

func (r *wishlistRepository) DeleteBooks(ctx context.Context, userID int64, bookIDs []int64) (int64, error) {
	if len(bookIDs) == 0 {
		return 0, nil
	}

	cmdTag, err := r.q.DeleteWishlistBooks(ctx, db.DeleteWishlistBooksParams{
		UserID:  userID,
		BookIds: bookIDs,
	})
	if err != nil {
		return 0, fmt.Errorf("q.DeleteWishlistBooks: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
