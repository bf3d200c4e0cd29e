package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookSnapshot is the client's copy of a book at checkout time. Fields are pointers
// so that missing ones can be told apart from zero values.
type BookSnapshot struct {
	ID    *int64           `json:"id"`
	Title *string          `json:"title"`
	Image *string          `json:"image"`
	Price *decimal.Decimal `json:"price"`
}

type CheckoutItem struct {
	Book     BookSnapshot `json:"book"`
	Quantity int          `json:"quantity"`
}

type CheckoutRequest struct {
	CartItems []CheckoutItem `json:"cartItems"`
	AddressID int64          `json:"addressId"`
}

type CheckoutSession struct {
	OrderID    uuid.UUID
	SessionID  string
	URL        string
	SuccessURL string
	CancelURL  string
}

// PaymentLine is one line item shown on the hosted payment page.
type PaymentLine struct {
	Name      string
	ImageURL  string
	UnitPrice Money
	Quantity  int
}

type PaymentSessionRequest struct {
	Lines         []PaymentLine
	CustomerID    string
	CustomerEmail string
	Correlation   Correlation
}

type PaymentSession struct {
	ID         string
	URL        string
	SuccessURL string
	CancelURL  string
}
