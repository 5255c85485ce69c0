package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/config"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/db"
	httpserver "github.com/WailSalutem-Health-Care/vitals-service/internal/http"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/logging"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/telemetry"
	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vitals-service:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	ctx := context.Background()

	var (
		provider *telemetry.Provider
		metrics  *telemetry.Metrics
	)
	if cfg.TelemetryEnabled {
		provider, err = telemetry.InitProvider(ctx, telemetry.LoadConfig(), logger)
		if err != nil {
			logger.Warn().Err(err).Msg("telemetry disabled")
		}
		metrics, err = telemetry.InitMetrics()
		if err != nil {
			logger.Warn().Err(err).Msg("business metrics disabled")
			metrics = nil
		}
	}

	client, database, err := db.Connect(ctx, cfg.MongoURL, cfg.DBName, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := db.EnsureIndexes(ctx, database); err != nil {
		return err
	}

	var publisher messaging.PublisherInterface
	if cfg.RabbitMQURL != "" {
		p, err := messaging.NewPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ unavailable, events will not be published")
		} else {
			publisher = p
			defer p.Close()
		}
	} else {
		logger.Info().Msg("RABBITMQ_URL not set, events disabled")
	}

	router := httpserver.SetupRouter(client, database, publisher, metrics, httpserver.Options{
		APIPrefix: cfg.APIPrefix,
		Logger:    logger,
		Tracing:   cfg.TelemetryEnabled,
	})

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: handlers.RecoveryHandler(
			handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("api_prefix", cfg.APIPrefix).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := provider.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("telemetry shutdown failed")
	}

	logger.Info().Msg("server stopped")
	return nil
}

// recoveryLogger adapts zerolog to the gorilla/handlers recovery logger
type recoveryLogger struct {
	logger zerolog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error().Msg(fmt.Sprint(v...))
}
