package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/metrics"
)

type Checkouter interface {
	CreateCheckoutSession(ctx context.Context, userID int64, req domain.CheckoutRequest, caller domain.CallerIdentity) (domain.CheckoutSession, error)
}

type WebhookHandler interface {
	HandleWebhook(ctx context.Context, signatureHeader string, payload []byte) error
}

type OrderReader interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Checkout Checkouter
	Webhooks WebhookHandler
	Orders   OrderReader
	DB       Pinger
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// JWTSecret signs bearer tokens (HS256). Ignored when Auth is set.
	JWTSecret string
	// Auth replaces the bearer token middleware, it must store a *jwt.Token under "user".
	Auth fiber.Handler
}

type Server struct {
	app     *fiber.App
	deps    Deps
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewServer(deps Deps) (*Server, error) {
	if deps.Checkout == nil || deps.Webhooks == nil || deps.Orders == nil || deps.DB == nil {
		return nil, errors.New("missing dependency")
	}
	if deps.Auth == nil && deps.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		deps:    deps,
		logger:  logger,
		metrics: deps.Metrics,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "bookcheckout",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleFiberError,
	})

	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(s.observe)

	s.app.Get("/health", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	// trust comes from the payload signature, not from a bearer token
	s.app.Post("/webhook", s.webhook)

	auth := s.deps.Auth
	if auth == nil {
		auth = jwtware.New(jwtware.Config{
			SigningKey:    []byte(s.deps.JWTSecret),
			SigningMethod: "HS256",
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
			},
		})
	}

	s.app.Post("/orders/checkout-session/:userId", auth, s.createCheckoutSession)
	s.app.Get("/orders/:orderId", auth, s.getOrder)
	s.app.Get("/users/:userId/orders", auth, s.listUserOrders)
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()
	if err != nil {
		// run the error handler now so the recorded status is the one the client gets
		if herr := s.app.ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.metrics.ObserveRequest(c.Route().Path, strconv.Itoa(c.Response().StatusCode()), time.Since(start))

	return nil
}

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := s.deps.DB.Ping(ctx); err != nil {
		s.logger.Error("health check failed", "err", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
