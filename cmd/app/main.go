package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"deliveryorders/cmd"
	httpadapter "deliveryorders/internal/adapters/in/http"
	natsadapter "deliveryorders/internal/adapters/out/nats"
	"deliveryorders/internal/adapters/out/postgres"
	valkeyadapter "deliveryorders/internal/adapters/out/valkey"
	"deliveryorders/internal/core/ports"
	"deliveryorders/internal/pkg/logging"

	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := logging.New(configs.Log.Level, configs.Log.Format)
	slog.SetDefault(logger)

	if err := run(configs, logger); err != nil {
		log.Fatalf("Delivery service stopped: %v", err)
	}
}

func run(configs cmd.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(configs.DB.DSN()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DB.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	publisher, closePublisher := connectPublisher(configs.NATS, logger)
	defer closePublisher()

	limiter, closeLimiter := rateLimiterStore(configs, logger)
	defer closeLimiter()

	app, err := cmd.NewCompositionRoot(configs, gormDB, publisher, logger)
	if err != nil {
		return err
	}

	router, err := app.CreateRouter(limiter)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		return err
	}
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	server := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", configs.HTTP.Port),
		Handler:      httpadapter.NewHandler(router, configs.HTTP.AllowedOrigins),
		ReadTimeout:  configs.HTTP.ReadTimeout,
		WriteTimeout: configs.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// connectPublisher returns a nil publisher when NATS is not configured or
// cannot be reached; orders are still stored, only events are lost.
func connectPublisher(cfg cmd.NATSConfig, logger *slog.Logger) (ports.OrderEventPublisher, func()) {
	if cfg.URL == "" {
		logger.Info("NATS is not configured, order events are disabled")
		return nil, func() {}
	}

	publisher, err := natsadapter.Connect(cfg.URL, cfg.SubjectPrefix)
	if err != nil {
		logger.Warn("NATS connection failed, order events are disabled", "error", err)
		return nil, func() {}
	}
	return publisher, publisher.Close
}

func rateLimiterStore(configs cmd.Config, logger *slog.Logger) (middleware.RateLimiterStore, func()) {
	if !configs.RateLimit.Enabled {
		return nil, func() {}
	}

	memory := httpadapter.NewMemoryRateLimiterStore(configs.RateLimit.Requests, configs.RateLimit.Window)
	if configs.Valkey.Addr == "" {
		return memory, func() {}
	}

	client, err := valkeyadapter.NewClient(configs.Valkey.Addr)
	if err != nil {
		logger.Warn("Valkey connection failed, rate limits are per instance", "error", err)
		return memory, func() {}
	}

	store, err := valkeyadapter.NewRateLimiterStore(client, valkeyadapter.RateLimiterConfig{
		Limit:     configs.RateLimit.Requests,
		Window:    configs.RateLimit.Window,
		KeyPrefix: configs.Valkey.KeyPrefix,
	}, memory, logger)
	if err != nil {
		client.Close()
		logger.Warn("Valkey rate limiter is misconfigured, rate limits are per instance", "error", err)
		return memory, func() {}
	}
	return store, client.Close
}
