package port

import (
	"context"

	"github.com/nikolayk812/bookcheckout/internal/domain"
)

type CartRepository interface {
	// GetCartForUpdate returns the cart with live catalog prices and locks its lines.
	GetCartForUpdate(ctx context.Context, userID int64) (domain.Cart, error)
	AddItem(ctx context.Context, userID, bookID int64, quantity int) error
	DeleteItems(ctx context.Context, cartID int64, bookIDs []int64) (int64, error)
}

type WishlistRepository interface {
	AddBook(ctx context.Context, userID, bookID int64) error
	GetBookIDs(ctx context.Context, userID int64) ([]int64, error)
	DeleteBooks(ctx context.Context, userID int64, bookIDs []int64) (int64, error)
}
