// Package testpg starts a disposable Postgres for integration tests and seeds the catalog side of the schema.
// It is imported from _test.go files only.
package testpg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcheckout/internal/storage"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const image = "postgres:17-alpine"

type Postgres struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
}

// Start runs a Postgres container, applies the embedded migrations and returns a connected pool.
func Start(ctx context.Context) (*Postgres, error) {
	container, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase("bookcheckout"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("container.ConnectionString: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := storage.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage.RunMigrations: %w", err)
	}

	return &Postgres{Container: container, Pool: pool}, nil
}

func (p *Postgres) Terminate(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if p.Pool != nil {
		p.Pool.Close()
	}
	if p.Container != nil {
		return p.Container.Terminate(ctx)
	}
	return nil
}

// Truncate wipes every table, keeping the schema.
func (p *Postgres) Truncate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `TRUNCATE TABLE
		order_outbox, payment_events, order_books, orders,
		wishlist_books, wishlists, cart_books, carts,
		books, addresses, users
		RESTART IDENTITY CASCADE`)
	return err
}
