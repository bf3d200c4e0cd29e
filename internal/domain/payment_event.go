package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

type PaymentEventType string

const PaymentEventSucceeded PaymentEventType = "payment_succeeded"

const (
	MetadataOrderID   = "orderId"
	MetadataUserID    = "userId"
	MetadataAddressID = "addressId"
)

// PaymentEvent is a verified notification from the payment processor.
// The same ID can be delivered more than once.
type PaymentEvent struct {
	ID          string
	Type        PaymentEventType
	Correlation Correlation
	ReceiptURL  string
}

// Correlation links a payment session back to the order it pays for.
type Correlation struct {
	OrderID   uuid.UUID
	UserID    int64
	AddressID int64
}

func (c Correlation) Metadata() map[string]string {
	return map[string]string{
		MetadataOrderID:   c.OrderID.String(),
		MetadataUserID:    strconv.FormatInt(c.UserID, 10),
		MetadataAddressID: strconv.FormatInt(c.AddressID, 10),
	}
}

func ParseCorrelation(metadata map[string]string) (Correlation, error) {
	var c Correlation

	orderID, err := uuid.Parse(metadata[MetadataOrderID])
	if err != nil {
		return c, fmt.Errorf("metadata %s: %w", MetadataOrderID, err)
	}

	userID, err := strconv.ParseInt(metadata[MetadataUserID], 10, 64)
	if err != nil {
		return c, fmt.Errorf("metadata %s: %w", MetadataUserID, err)
	}

	addressID, err := strconv.ParseInt(metadata[MetadataAddressID], 10, 64)
	if err != nil {
		return c, fmt.Errorf("metadata %s: %w", MetadataAddressID, err)
	}

	return Correlation{
		OrderID:   orderID,
		UserID:    userID,
		AddressID: addressID,
	}, nil
}
