package port

import (
	"context"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (domain.User, error)
}

type AddressRepository interface {
	// GetAddress returns the address only if it belongs to userID.
	GetAddress(ctx context.Context, userID, addressID int64) (domain.Address, error)
}

type CatalogRepository interface {
	GetBook(ctx context.Context, bookID int64) (domain.Book, error)
	UpdatePrice(ctx context.Context, bookID int64, price decimal.Decimal) error
}
