package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcheckout/internal/db"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Users, addresses and books are owned by other parts of the store,
// checkout only reads them (and the catalog price, for admin tooling and tests).

type userRepository struct {
	q *db.Queries
}

func NewUser(pool *pgxpool.Pool) port.UserRepository {
	return &userRepository{q: db.New(pool)}
}

func (r *userRepository) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	var u domain.User

	dbUser, err := r.q.GetUser(ctx, userID)
	if err != nil {
		return u, fmt.Errorf("q.GetUser: %w", translate(err, domain.ErrUserNotFound))
	}

	role, err := domain.ToRole(dbUser.Role)
	if err != nil {
		return u, fmt.Errorf("domain.ToRole[%s]: %w", dbUser.Role, err)
	}

	return domain.User{
		ID:                dbUser.ID,
		Email:             dbUser.Email,
		Name:              dbUser.Name,
		Role:              role,
		PaymentCustomerID: lo.FromPtr(dbUser.PaymentCustomerID),
	}, nil
}

type addressRepository struct {
	q *db.Queries
}

func NewAddress(pool *pgxpool.Pool) port.AddressRepository {
	return &addressRepository{q: db.New(pool)}
}

func (r *addressRepository) GetAddress(ctx context.Context, userID, addressID int64) (domain.Address, error) {
	dbAddress, err := r.q.GetAddress(ctx, db.GetAddressParams{
		ID:     addressID,
		UserID: userID,
	})
	if err != nil {
		return domain.Address{}, fmt.Errorf("q.GetAddress: %w", translate(err, domain.ErrAddressNotFound))
	}

	return domain.Address{
		ID:         dbAddress.ID,
		UserID:     dbAddress.UserID,
		Line1:      dbAddress.Line1,
		City:       dbAddress.City,
		PostalCode: dbAddress.PostalCode,
		Country:    dbAddress.Country,
	}, nil
}

type catalogRepository struct {
	q *db.Queries
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{q: db.New(pool)}
}

var errBookNotFound = domain.NewError(domain.KindNotFound, "book not found")

func (r *catalogRepository) GetBook(ctx context.Context, bookID int64) (domain.Book, error) {
	dbBook, err := r.q.GetBook(ctx, bookID)
	if err != nil {
		return domain.Book{}, fmt.Errorf("q.GetBook: %w", translate(err, errBookNotFound))
	}

	return domain.Book{
		ID:       dbBook.ID,
		Title:    dbBook.Title,
		ImageURL: dbBook.ImageUrl,
		Price:    dbBook.Price,
	}, nil
}

func (r *catalogRepository) UpdatePrice(ctx context.Context, bookID int64, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("price is negative")
	}

	cmdTag, err := r.q.UpdateBookPrice(ctx, db.UpdateBookPriceParams{
		ID:    bookID,
		Price: price,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateBookPrice: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateBookPrice: %w", errBookNotFound)
	}

	return nil
}
