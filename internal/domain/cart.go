package domain

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID     int64
	UserID int64
	Items  []CartItem
}

// CartItem carries the live catalog price of the book, not a client supplied one.
type CartItem struct {
	BookID   int64
	Quantity int
	Price    decimal.Decimal
}

func (c Cart) Total() decimal.Decimal {
	return lo.Reduce(c.Items, func(acc decimal.Decimal, item CartItem, _ int) decimal.Decimal {
		return acc.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}, decimal.Zero)
}

func (c Cart) BookIDs() []int64 {
	return lo.Map(c.Items, func(item CartItem, _ int) int64 {
		return item.BookID
	})
}
