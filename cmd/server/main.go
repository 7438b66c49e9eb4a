package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"paygate/internal/app"
	"paygate/internal/config"
	"paygate/internal/gateway"
	"paygate/internal/handler"
	"paygate/internal/repository/postgres"
	"paygate/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	// Schema and the status catalog must exist before serving traffic.
	if err := postgres.RunMigrations(ctx, db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := postgres.SeedPaymentStatuses(ctx, db); err != nil {
		logger.Fatal("failed to seed payment statuses", zap.Error(err))
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg, logger)

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger *zap.Logger) *http.Server {
	// Initialize repositories.
	customerRepo := postgres.NewCustomerRepository(db)
	statusRepo := postgres.NewPaymentStatusRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Initialize the gateway adapter.
	gw := gateway.NewMPGSGateway(cfg.Gateway.MerchantID, logger.Named("gateway"))

	// Initialize services.
	customerService := service.NewCustomerService(customerRepo, logger.Named("customer"))
	statusService := service.NewPaymentStatusService(statusRepo, logger.Named("status"))
	paymentService := service.NewPaymentService(
		paymentRepo, transactionRepo, customerRepo, statusRepo, uow, gw, logger.Named("payment"),
	)

	// Initialize handlers.
	customerHandler := handler.NewCustomerHandler(customerService)
	statusHandler := handler.NewPaymentStatusHandler(statusService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CustomerHandler:      customerHandler,
		PaymentStatusHandler: statusHandler,
		PaymentHandler:       paymentHandler,
		RedisClient:          redisClient,
		NewRelicApp:          nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
