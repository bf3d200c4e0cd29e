package httpapi

import (
	"time"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/samber/lo"
)

type checkoutSessionResponse struct {
	OrderID    string `json:"order_id"`
	URL        string `json:"url"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type orderBookResponse struct {
	BookID   int64  `json:"book_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	UserID     int64               `json:"user_id"`
	AddressID  int64               `json:"address_id"`
	Status     string              `json:"status"`
	Total      string              `json:"total"`
	Currency   string              `json:"currency"`
	ReceiptURL string              `json:"receipt_url,omitempty"`
	Books      []orderBookResponse `json:"books"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func toCheckoutSessionResponse(s domain.CheckoutSession) checkoutSessionResponse {
	return checkoutSessionResponse{
		OrderID:    s.OrderID.String(),
		URL:        s.URL,
		SuccessURL: s.SuccessURL,
		CancelURL:  s.CancelURL,
	}
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID.String(),
		UserID:    o.UserID,
		AddressID: o.AddressID,
		Status:    string(o.Status),
		Total:     o.Total.Amount.StringFixed(2),
		Currency:  o.Total.Currency.String(),
		Books: lo.Map(o.Books, func(b domain.OrderBook, _ int) orderBookResponse {
			return orderBookResponse{
				BookID:   b.BookID,
				Quantity: b.Quantity,
				Price:    b.Price.StringFixed(2),
			}
		}),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}

	if o.ReceiptURL != nil {
		resp.ReceiptURL = o.ReceiptURL.String()
	}

	return resp
}
