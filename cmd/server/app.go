package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nordvik/sagapay/internal/config"
	"github.com/nordvik/sagapay/internal/events"
	"github.com/nordvik/sagapay/internal/platform/kafka"
	"github.com/nordvik/sagapay/internal/platform/oracle"
	"github.com/nordvik/sagapay/internal/platform/postgres"
	"github.com/nordvik/sagapay/internal/service"
	"github.com/nordvik/sagapay/internal/service/auth"
	"github.com/nordvik/sagapay/internal/service/ordersaga"
	"github.com/nordvik/sagapay/internal/service/paymentsaga"
	"github.com/nordvik/sagapay/internal/service/registration"
	"github.com/nordvik/sagapay/internal/store"
	"github.com/nordvik/sagapay/internal/worker"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	broker *kafka.Broker

	// Stores
	profileStore    store.ProfileStore
	credentialStore store.CredentialStore
	orderStore      store.OrderStore
	paymentStore    store.PaymentStore

	// Services
	jwtService   auth.JWTService
	hasher       auth.PasswordHasher
	coordinator  *registration.Coordinator
	orderService *service.OrderService

	// Saga consumers
	runner *worker.Runner
}

// newApplication creates an application instance with all dependencies
// initialized: database (with migrations applied), broker, stores, services
// and the consumer runner. Consumers are registered but not started; Run
// starts them alongside the HTTP server.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error

	app.db, err = setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := postgres.RunMigrations(app.db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database migrations applied")

	app.broker = kafka.New(cfg.Kafka.Brokers, logger)
	if err := pingBrokerWithRetry(ctx, app.broker); err != nil {
		return nil, fmt.Errorf("event bus unreachable: %w", err)
	}
	logger.Info("Event bus connection established", "brokers", cfg.Kafka.Brokers)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.hasher = auth.NewBcryptHasher()

	// Stores
	app.profileStore = postgres.NewProfileStore(app.db)
	app.credentialStore = postgres.NewCredentialStore(app.db)
	app.orderStore = postgres.NewOrderStore(app.db)
	app.paymentStore = postgres.NewPaymentStore(app.db)

	// Registration saga: the coordinator talks to the profile and identity
	// collaborators over HTTP, authenticated by the internal secret.
	app.coordinator = registration.NewCoordinator(
		registration.NewHTTPProfileClient(cfg.Registration),
		registration.NewHTTPCredentialClient(cfg.Registration),
		logger,
	)

	// Payment saga: order side publishes facts, payment side settles them.
	producer := ordersaga.NewProducer(app.broker, logger)
	app.orderService = service.NewOrderService(app.orderStore, app.paymentStore, producer, logger)

	decisions := oracle.NewClient(cfg.Oracle.URL, time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second)
	paymentConsumer := paymentsaga.NewConsumer(app.paymentStore, decisions, app.broker, logger)
	orderConsumer := ordersaga.NewConsumer(app.orderStore, logger)
	dlq := paymentsaga.NewDLQProducer(app.broker, logger)

	app.runner = worker.NewRunner(app.broker, logger)
	app.runner.Add(worker.Subscription{
		Topic:       events.TopicOrderCreated,
		GroupID:     cfg.Kafka.GroupID + "-payment",
		Handler:     paymentConsumer.HandleOrderCreated,
		MaxAttempts: cfg.Kafka.MaxAttempts,
		DeadLetter:  dlq.Send,
	})
	app.runner.Add(worker.Subscription{
		Topic:       events.TopicPaymentCreated,
		GroupID:     cfg.Kafka.GroupID + "-order",
		Handler:     orderConsumer.HandlePaymentCreated,
		MaxAttempts: cfg.Kafka.MaxAttempts,
	})

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the saga consumers and the HTTP server, blocking until the
// context is canceled or the server stops.
func (app *application) Run(ctx context.Context) error {
	app.runner.Start(ctx)

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// pingBrokerWithRetry verifies broker reachability, retrying with bounded
// exponential backoff so the server survives a broker that is still coming
// up alongside it.
func pingBrokerWithRetry(ctx context.Context, broker *kafka.Broker) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return broker.Ping(ctx)
	}, backoff.WithContext(policy, ctx))
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}

	if app.broker != nil {
		if err := app.broker.Close(); err != nil {
			app.logger.Error("Error closing event bus writers", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}
