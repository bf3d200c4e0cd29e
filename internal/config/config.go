package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	LogLevel    slog.Level

	StripeAPIKey        string
	StripeWebhookSecret string
	StripeAPIURL        string
	Currency            currency.Unit
	SuccessURL          string
	CancelURL           string
	GatewayTimeout      time.Duration
	WebhookTolerance    time.Duration

	RabbitURL       string
	OrdersExchange  string
	OutboxInterval  time.Duration
	OutboxBatchSize int

	ShutdownGracePeriod time.Duration
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// Load reads the process environment. Every malformed value is reported; nothing falls back silently.
func Load() (Config, error) {
	var p envParser

	cfg := Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		LogLevel:    p.level("LOG_LEVEL", "info"),

		StripeAPIKey:        getEnv("STRIPE_API_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeAPIURL:        getEnv("STRIPE_API_URL", ""),
		Currency:            p.currencyUnit("CHECKOUT_CURRENCY", "USD"),
		SuccessURL:          getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		CancelURL:           getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
		GatewayTimeout:      p.duration("GATEWAY_TIMEOUT", 10*time.Second),
		WebhookTolerance:    p.duration("WEBHOOK_TOLERANCE", 5*time.Minute),

		RabbitURL:       getEnv("RABBIT_URL", ""),
		OrdersExchange:  getEnv("ORDERS_EXCHANGE", "orders.events"),
		OutboxInterval:  p.duration("OUTBOX_INTERVAL", 2*time.Second),
		OutboxBatchSize: p.integer("OUTBOX_BATCH", 32),

		ShutdownGracePeriod: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	required := []struct {
		key, value string
	}{
		{"DATABASE_URL", c.DatabaseURL},
		{"JWT_SECRET", c.JWTSecret},
		{"STRIPE_API_KEY", c.StripeAPIKey},
		{"STRIPE_WEBHOOK_SECRET", c.StripeWebhookSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}

	if c.GatewayTimeout <= 0 {
		errs = append(errs, errors.New("GATEWAY_TIMEOUT must be positive"))
	}
	if c.OutboxBatchSize <= 0 {
		errs = append(errs, errors.New("OUTBOX_BATCH must be positive"))
	}

	return errors.Join(errs...)
}

// PublishingEnabled reports whether completed orders are relayed to RabbitMQ.
func (c Config) PublishingEnabled() bool {
	return c.RabbitURL != ""
}

// envParser collects parse failures so Load can report all of them at once.
type envParser struct {
	errs []error
}

func (p *envParser) fail(key string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return d
}

func (p *envParser) integer(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *envParser) currencyUnit(key, def string) currency.Unit {
	cur, err := currency.ParseISO(getEnv(key, def))
	if err != nil {
		p.fail(key, err)
	}
	return cur
}

func (p *envParser) level(key, def string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv(key, def))); err != nil {
		p.fail(key, err)
	}
	return level
}
