package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"delivery/internal/app"
	"delivery/internal/config"
	"delivery/internal/events"
	"delivery/internal/handler"
	"delivery/internal/logging"
	internalRedis "delivery/internal/redis"
	"delivery/internal/repository/postgres"
	"delivery/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", "error", err)
		} else {
			logger.Info("New Relic enabled", "app", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	publisher, err := app.NewEventPublisher(cfg.Events, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()
	logger.Info("event publisher ready", "backend", cfg.Events.Backend)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, dispatcher := wireServer(db, redisClient, publisher, nrApp, cfg, logger)

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(runCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-runCtx.Done():
		logger.Info("shutting down server")
	case err := <-serverErr:
		stop()
		<-dispatcherDone
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-dispatcherDone

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info("server exited")
	return nil
}

// wireServer wires all dependencies and returns the HTTP server and the
// assignment dispatcher.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	publisher events.Publisher,
	nrApp *newrelic.Application,
	cfg *config.Config,
	logger *slog.Logger,
) (*http.Server, *service.Dispatcher) {
	// Initialize repositories.
	driverRepo := postgres.NewDriverRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	restaurantRepo := postgres.NewRestaurantRepository(db)
	settingRepo := postgres.NewSettingRepository(db)

	// Initialize services.
	settingsService := service.NewSettingsService(settingRepo)
	notificationService := service.NewNotificationService(publisher)

	var engineOpts []service.EngineOption
	if cfg.Assignment.DriverLockEnabled {
		engineOpts = append(engineOpts, service.WithDriverLock(internalRedis.NewDriverLockStore(redisClient), cfg.Assignment.DriverLockTTL))
	}
	engine := service.NewAssignmentEngine(orderRepo, restaurantRepo, driverRepo, settingsService, engineOpts...)

	dispatcher := service.NewDispatcher(engine, notificationService, orderRepo, service.DispatcherConfig{
		Workers:       cfg.Assignment.Workers,
		QueueSize:     cfg.Assignment.QueueSize,
		MaxAttempts:   cfg.Assignment.MaxAttempts,
		RetryBackoff:  cfg.Assignment.RetryBackoff,
		SweepInterval: cfg.Assignment.SweepInterval,
		SweepBatch:    cfg.Assignment.SweepBatch,
	}, logger, nrApp)

	orderService := service.NewOrderService(orderRepo, restaurantRepo, driverRepo, engine, dispatcher, notificationService, logger)
	driverService := service.NewDriverService(driverRepo)
	restaurantService := service.NewRestaurantService(restaurantRepo)

	// Initialize handlers and router.
	router := app.NewRouter(app.RouterDeps{
		RestaurantHandler: handler.NewRestaurantHandler(restaurantService),
		DriverHandler:     handler.NewDriverHandler(driverService),
		OrderHandler:      handler.NewOrderHandler(orderService),
		AdminHandler:      handler.NewAdminHandler(orderService, settingsService),
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
		JWTSecret:         cfg.Auth.JWTSecret,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, dispatcher
}
