package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"keypad-calc/internal/calculator"
	"keypad-calc/internal/handlers"
	"keypad-calc/internal/observability"
)

// NewRouter wires the health, metrics and calculator endpoints over store.
func NewRouter(store *calculator.Store) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler(store))

	calculator.RegisterRoutes(r, calculator.NewHandler(store))

	return r
}
