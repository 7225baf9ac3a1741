package main

import (
	"context"

	"keypad-calc/internal/calculator"
	"keypad-calc/internal/config"
	"keypad-calc/internal/observability"
)

// shutdownFunc flushes and stops a telemetry provider.
type shutdownFunc func(context.Context) error

// initTelemetry initialises tracing, metrics and, when export is enabled,
// OTLP log shipping. Add new domain InitMetrics calls here as the project grows.
func initTelemetry(ctx context.Context, cfg config.Config) ([]shutdownFunc, error) {
	var shutdowns []shutdownFunc

	traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName, cfg.OTelEnabled)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	metricShutdown, err := observability.InitMetrics(ctx, cfg.OTelEnabled)
	if err != nil {
		return shutdowns, err
	}
	shutdowns = append(shutdowns, metricShutdown)

	if err := calculator.InitMetrics(); err != nil {
		return shutdowns, err
	}

	if cfg.OTelEnabled {
		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			return shutdowns, err
		}
		shutdowns = append(shutdowns, logShutdown)
	}

	return shutdowns, nil
}
