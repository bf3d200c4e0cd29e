package httpapi

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/nikolayk812/bookcheckout/internal/domain"
)

const (
	claimUserID = "user_id"
	claimRole   = "role"
)

// callerFromCtx turns the verified token stored by the auth middleware into a CallerIdentity.
func callerFromCtx(c *fiber.Ctx) (domain.CallerIdentity, error) {
	var caller domain.CallerIdentity

	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return caller, fiber.ErrUnauthorized
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return caller, fiber.ErrUnauthorized
	}

	switch v := claims[claimUserID].(type) {
	case float64:
		if v != math.Trunc(v) {
			return caller, fiber.ErrUnauthorized
		}
		caller.ID = int64(v)
	case int:
		caller.ID = int64(v)
	case int64:
		caller.ID = v
	default:
		return caller, fiber.ErrUnauthorized
	}
	if caller.ID <= 0 {
		return caller, fiber.ErrUnauthorized
	}

	caller.Role = domain.RoleUser
	if s, ok := claims[claimRole].(string); ok && s != "" {
		role, err := domain.ToRole(s)
		if err != nil {
			return caller, fiber.ErrUnauthorized
		}
		caller.Role = role
	}

	return caller, nil
}
