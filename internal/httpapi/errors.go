package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nikolayk812/bookcheckout/internal/domain"
)

func statusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindBadRequest:
		return fiber.StatusBadRequest
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindAlreadyExists, domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError answers with the domain message of err. Internal errors are logged and hidden.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status := statusOf(kind)

	if kind == domain.KindInternal {
		s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
		return c.Status(status).JSON(fiber.Map{"message": "internal server error"})
	}

	s.logger.Info("request rejected", "method", c.Method(), "path", c.Path(), "status", status, "err", err)
	return c.Status(status).JSON(fiber.Map{"message": domain.Message(err)})
}

func (s *Server) handleFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	return s.writeError(c, err)
}
