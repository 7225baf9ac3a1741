package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"keypad-calc/internal/calculator"
	"keypad-calc/internal/observability"
	"keypad-calc/internal/server"
)

func main() {

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing, metrics, log export
	shutdowns, err := initTelemetry(ctx, cfg)
	defer shutdownTelemetry(shutdowns, cfg.ShutdownTimeout)
	if err != nil {
		observability.Logger.Error("telemetry init failed", zap.Error(err))
		return
	}

	// Sessions
	store := calculator.NewStore(calculator.StoreConfig{
		MaxSessions: cfg.SessionMax,
		TTL:         cfg.SessionTTL,
		MaxDigits:   cfg.MaxDigits,
		Grouping:    cfg.Grouping,
	})
	go calculator.NewHandler(store).RunJanitor(ctx, cfg.SessionSweepInterval)

	// Router
	router := server.NewRouter(store)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.HTTPAddr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	waitForShutdown(srv, cfg.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
	observability.Logger.Info("server stopped")
}

func shutdownTelemetry(shutdowns []shutdownFunc, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for i := len(shutdowns) - 1; i >= 0; i-- {
		if err := shutdowns[i](ctx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}
}
