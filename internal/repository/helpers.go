package repository

import (
	"time"

	"github.com/nikolayk812/bookcheckout/internal/domain"
)

func filterBounds(r *domain.TimeRange) (after, before *time.Time) {
	if r == nil {
		return nil, nil
	}
	return r.After, r.Before
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
