package httpapi

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/samber/lo"
)

const signatureHeader = "Stripe-Signature"

func (s *Server) createCheckoutSession(c *fiber.Ctx) error {
	caller, err := callerFromCtx(c)
	if err != nil {
		return err
	}

	userID, err := parseID(c.Params("userId"))
	if err != nil {
		return s.writeError(c, domain.NewError(domain.KindBadRequest, "invalid userId"))
	}

	var req domain.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return s.writeError(c, domain.NewError(domain.KindBadRequest, "invalid request body"))
	}

	session, err := s.deps.Checkout.CreateCheckoutSession(c.UserContext(), userID, req, caller)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(toCheckoutSessionResponse(session))
}

func (s *Server) webhook(c *fiber.Ctx) error {
	// fiber reuses the request buffer after the handler returns
	payload := bytes.Clone(c.Body())

	if err := s.deps.Webhooks.HandleWebhook(c.UserContext(), c.Get(signatureHeader), payload); err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"received": true})
}

func (s *Server) getOrder(c *fiber.Ctx) error {
	caller, err := callerFromCtx(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return s.writeError(c, domain.NewError(domain.KindBadRequest, "invalid orderId"))
	}

	order, err := s.deps.Orders.GetOrder(c.UserContext(), orderID)
	if err != nil {
		return s.writeError(c, err)
	}

	if !caller.CanActFor(order.UserID) {
		return s.writeError(c, domain.ErrForbidden)
	}

	return c.JSON(toOrderResponse(order))
}

func (s *Server) listUserOrders(c *fiber.Ctx) error {
	caller, err := callerFromCtx(c)
	if err != nil {
		return err
	}

	userID, err := parseID(c.Params("userId"))
	if err != nil {
		return s.writeError(c, domain.NewError(domain.KindBadRequest, "invalid userId"))
	}

	if !caller.CanActFor(userID) {
		return s.writeError(c, domain.ErrForbidden)
	}

	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		return s.writeError(c, err)
	}

	orders, err := s.deps.Orders.SearchOrders(c.UserContext(), domain.OrderFilter{
		UserIDs:  []int64{userID},
		Statuses: statuses,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(lo.Map(orders, func(o domain.Order, _ int) orderResponse {
		return toOrderResponse(o)
	}))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// parseStatuses reads a comma separated status list, empty means any status.
func parseStatuses(raw string) ([]domain.OrderStatus, error) {
	if raw == "" {
		return nil, nil
	}

	var result []domain.OrderStatus
	for _, part := range strings.Split(raw, ",") {
		status, err := domain.ToOrderStatus(strings.ToUpper(strings.TrimSpace(part)))
		if err != nil {
			return nil, domain.NewError(domain.KindBadRequest, "invalid status %q", part)
		}
		result = append(result, status)
	}

	return lo.Uniq(result), nil
}
