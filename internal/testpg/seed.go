package testpg

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func (p *Postgres) InsertUser(ctx context.Context, role domain.Role) (domain.User, error) {
	u := domain.User{
		Email:             gofakeit.Email(),
		Name:              gofakeit.Name(),
		Role:              role,
		PaymentCustomerID: "cus_" + gofakeit.LetterN(14),
	}

	err := p.Pool.QueryRow(ctx,
		`INSERT INTO users (email, name, role, payment_customer_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Email, u.Name, string(u.Role), lo.EmptyableToPtr(u.PaymentCustomerID),
	).Scan(&u.ID)
	if err != nil {
		return u, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (p *Postgres) InsertAddress(ctx context.Context, userID int64) (domain.Address, error) {
	fake := gofakeit.Address()

	a := domain.Address{
		UserID:     userID,
		Line1:      fake.Street,
		City:       fake.City,
		PostalCode: fake.Zip,
		Country:    fake.Country,
	}

	err := p.Pool.QueryRow(ctx,
		`INSERT INTO addresses (user_id, line1, city, postal_code, country) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		a.UserID, a.Line1, a.City, a.PostalCode, a.Country,
	).Scan(&a.ID)
	if err != nil {
		return a, fmt.Errorf("insert address: %w", err)
	}

	return a, nil
}

func (p *Postgres) InsertBook(ctx context.Context, price decimal.Decimal) (domain.Book, error) {
	b := domain.Book{
		Title:    gofakeit.BookTitle(),
		ImageURL: gofakeit.URL(),
		Price:    price,
	}

	err := p.Pool.QueryRow(ctx,
		`INSERT INTO books (title, image_url, price) VALUES ($1, $2, $3) RETURNING id`,
		b.Title, b.ImageURL, b.Price,
	).Scan(&b.ID)
	if err != nil {
		return b, fmt.Errorf("insert book: %w", err)
	}

	return b, nil
}

// RandomPrice returns a catalog price with two decimal places.
func RandomPrice() decimal.Decimal {
	return decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2)
}

func (p *Postgres) CountCartBooks(ctx context.Context, userID int64) (int, error) {
	var n int
	err := p.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cart_books cb JOIN carts c ON c.id = cb.cart_id WHERE c.user_id = $1`,
		userID,
	).Scan(&n)
	return n, err
}

func (p *Postgres) CountOrderBooks(ctx context.Context) (int, error) {
	var n int
	err := p.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_books`).Scan(&n)
	return n, err
}

func (p *Postgres) CountOutbox(ctx context.Context) (int, error) {
	var n int
	err := p.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_outbox`).Scan(&n)
	return n, err
}
