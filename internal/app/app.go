package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nikolayk812/bookcheckout/internal/checkout"
	"github.com/nikolayk812/bookcheckout/internal/config"
	"github.com/nikolayk812/bookcheckout/internal/fulfillment"
	"github.com/nikolayk812/bookcheckout/internal/httpapi"
	"github.com/nikolayk812/bookcheckout/internal/messaging"
	"github.com/nikolayk812/bookcheckout/internal/metrics"
	"github.com/nikolayk812/bookcheckout/internal/payment"
	"github.com/nikolayk812/bookcheckout/internal/repository"
	"github.com/nikolayk812/bookcheckout/internal/storage"
	"github.com/nikolayk812/bookcheckout/internal/webhook"
)

type App struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *storage.Store
	server    *httpapi.Server
	publisher *messaging.RabbitPublisher
	outbox    *messaging.OutboxDispatcher
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	store, err := storage.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("storage.New: %w", err)
	}
	pool := store.Pool()

	m := metrics.New()

	gateway, err := payment.NewStripeGateway(payment.Config{
		APIKey:        cfg.StripeAPIKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		APIURL:        cfg.StripeAPIURL,
		SuccessURL:    cfg.SuccessURL,
		CancelURL:     cfg.CancelURL,
		Timeout:       cfg.GatewayTimeout,
		Tolerance:     cfg.WebhookTolerance,
	}, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("payment.NewStripeGateway: %w", err)
	}

	orders := repository.NewOrder(pool)

	orchestrator, err := checkout.NewOrchestrator(checkout.Deps{
		Orders:    orders,
		Users:     repository.NewUser(pool),
		Addresses: repository.NewAddress(pool),
		Gateway:   gateway,
		Logger:    logger,
		Metrics:   m,
	}, cfg.Currency, cfg.GatewayTimeout)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("checkout.NewOrchestrator: %w", err)
	}

	materializer := fulfillment.NewMaterializer(repository.NewUnitOfWork(pool), logger, m)
	intake := webhook.NewIntake(gateway, materializer, logger, m)

	server, err := httpapi.NewServer(httpapi.Deps{
		Checkout:  orchestrator,
		Webhooks:  intake,
		Orders:    orders,
		DB:        store,
		Logger:    logger,
		Metrics:   m,
		JWTSecret: cfg.JWTSecret,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("httpapi.NewServer: %w", err)
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
		server: server,
	}

	if cfg.PublishingEnabled() {
		publisher, err := messaging.NewRabbitPublisher(cfg.RabbitURL, cfg.OrdersExchange)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("messaging.NewRabbitPublisher: %w", err)
		}
		a.publisher = publisher
		a.outbox = messaging.NewOutboxDispatcher(pool, publisher, cfg.OutboxInterval, cfg.OutboxBatchSize, logger, m)
	} else {
		logger.Warn("RABBIT_URL is empty, completed orders stay in the outbox")
	}

	return a, nil
}

// Run serves HTTP and relays the outbox until ctx is done or the listener fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.outbox != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.outbox.Run(ctx)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.HTTPAddr)
		errCh <- a.server.Listen(a.cfg.HTTPAddr)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	cancel()
	wg.Wait()

	return err
}

func (a *App) Close(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown", "err", err)
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("publisher close", "err", err)
		}
	}
	a.store.Close()
}

func Run() error {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer app.Close(ctx)

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
