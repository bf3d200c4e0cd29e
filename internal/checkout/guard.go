package checkout

import (
	"github.com/nikolayk812/bookcheckout/internal/domain"
)

func authorize(caller domain.CallerIdentity, userID int64) domain.Verdict {
	if caller.ID <= 0 {
		return domain.Forbid("unauthenticated caller")
	}
	if !caller.CanActFor(userID) {
		return domain.Forbid("forbidden")
	}
	return domain.Allow()
}

// validate checks the shape of the request only. Prices are taken from the client snapshot for the
// payment page, the charged total is recomputed from the catalog when the payment is confirmed.
func validate(req domain.CheckoutRequest) domain.Verdict {
	if len(req.CartItems) == 0 {
		return domain.Reject("cart is empty")
	}
	if req.AddressID <= 0 {
		return domain.Reject("addressId is required")
	}

	for i, item := range req.CartItems {
		book := item.Book
		switch {
		case book.ID == nil:
			return domain.Reject("cartItems[%d]: book id is required", i)
		case book.Price == nil:
			return domain.Reject("cartItems[%d]: book price is required", i)
		case book.Title == nil || *book.Title == "":
			return domain.Reject("cartItems[%d]: book title is required", i)
		case book.Image == nil:
			return domain.Reject("cartItems[%d]: book image is required", i)
		case book.Price.IsNegative():
			return domain.Reject("cartItems[%d]: book price is negative", i)
		case item.Quantity <= 0:
			return domain.Reject("cartItems[%d]: quantity must be positive", i)
		}
	}

	return domain.Allow()
}
