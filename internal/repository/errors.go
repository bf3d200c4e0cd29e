package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/bookcheckout/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps storage failures onto domain error kinds, notFound is used for pgx.ErrNoRows.
// Other errors are returned as is.
func translate(err error, notFound *domain.Error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
	}

	return err
}
