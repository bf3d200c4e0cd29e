package domain

import "github.com/shopspring/decimal"

type User struct {
	ID    int64
	Email string
	Name  string
	Role  Role
	// PaymentCustomerID references the customer record at the payment processor, may be empty.
	PaymentCustomerID string
}

type Address struct {
	ID         int64
	UserID     int64
	Line1      string
	City       string
	PostalCode string
	Country    string
}

type Book struct {
	ID       int64
	Title    string
	ImageURL string
	Price    decimal.Decimal
}
