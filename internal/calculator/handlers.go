package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"keypad-calc/internal/engine"
	"keypad-calc/internal/handlers"
	"keypad-calc/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const (
	// maxBodyBytes caps JSON request bodies.
	maxBodyBytes = 64 << 10
	// maxKeysPerRequest caps a single keystroke batch.
	maxKeysPerRequest = 1024
)

// Handler serves calculator sessions and stateless evaluation.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// errorKind names an error for metric attributes and response bodies.
func errorKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidCharacter):
		return "invalid_character"
	case errors.Is(err, engine.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, engine.ErrNonFiniteResult):
		return "non_finite_result"
	case errors.Is(err, engine.ErrMalformed):
		return "malformed"
	case errors.Is(err, engine.ErrUnknownKey):
		return "unknown_key"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrStoreFull):
		return "session_limit"
	}
	return "internal"
}

// decodeJSON reads a size-capped JSON body into v. On failure it returns the
// HTTP status to answer with.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, err
		}
		return http.StatusBadRequest, err
	}
	return 0, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStoreFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrUnknownKey):
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// Evaluate handles POST /calculator/evaluate. It evaluates a whole expression
// without a session.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	const opName = "evaluate"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EvaluateRequest
	if status, err := decodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, status, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	start := time.Now()
	res, err := engine.Evaluate(req.Expression)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		span.SetAttributes(attribute.String("calculator.error_kind", errorKind(err)))
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	evalCounter.Add(ctx, 1, attrs)
	evalHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, res.Value, attrs)

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.String("result", res.Text),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.String("result", res.Text),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: req.Expression,
		Result:     res.Text,
		Value:      res.Value,
	})
}

// CreateSession handles POST /calculator/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	const opName = "create_session"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create")
	defer span.End()

	snap, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	sessionsCounter.Add(ctx, 1)
	span.SetAttributes(attribute.String("calculator.session.id", snap.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("session created",
		zap.String("session_id", snap.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, snap)
}

// GetSession handles GET /calculator/sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	const opName = "get_session"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	snap, err := h.store.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /calculator/sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	const opName = "delete_session"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	sessionsCounter.Add(ctx, -1)
	span.SetStatus(codes.Ok, "")

	logger.Info("session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys. It applies a batch of
// keystrokes in order. Unknown key names reject the whole batch. A failed
// evaluation is session state, not an HTTP error.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	const opName = "press_keys"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.keys",
		trace.WithAttributes(
			attribute.String("calculator.session.id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req KeysRequest
	if status, err := decodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, status, w)
		return
	}
	if len(req.Keys) > maxKeysPerRequest {
		err := fmt.Errorf("%d keys in one request, limit is %d", len(req.Keys), maxKeysPerRequest)
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusRequestEntityTooLarge, w)
		return
	}

	keys := make([]engine.Key, 0, len(req.Keys))
	for i, name := range req.Keys {
		k, err := engine.ParseKey(name)
		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, opName, fmt.Sprintf("key %d: %v", i, err), err, http.StatusBadRequest, w)
			return
		}
		keys = append(keys, k)
	}

	span.SetAttributes(attribute.Int("calculator.keys.count", len(keys)))

	start := time.Now()
	snap, err := h.store.Apply(id, keys)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	keysCounter.Add(ctx, int64(len(keys)))
	if containsEquals(keys) {
		recordOutcome(ctx, span, logger, snap, elapsed)
	}

	span.SetAttributes(
		attribute.String("calculator.mode", snap.Mode),
		attribute.String("calculator.display", snap.Display),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("keys applied",
		zap.String("session_id", id),
		zap.Int("keys", len(keys)),
		zap.String("display", snap.Display),
		zap.String("mode", snap.Mode),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, snap)
}

func containsEquals(keys []engine.Key) bool {
	for _, k := range keys {
		if k.Kind == engine.KeyEquals {
			return true
		}
	}
	return false
}

// recordOutcome records result and error metrics after a key batch that
// pressed equals.
func recordOutcome(ctx context.Context, span trace.Span, logger *zap.Logger, snap Snapshot, elapsed float64) {
	attrs := metric.WithAttributes(attribute.String("operation", "press_keys"))

	switch snap.Mode {
	case engine.ModeResult.String():
		evalCounter.Add(ctx, 1, attrs)
		evalHistogram.Record(ctx, elapsed, attrs)
		if v, err := strconv.ParseFloat(snap.Result, 64); err == nil {
			resultGauge.Record(ctx, v, attrs)
		}
		span.AddEvent("evaluation.complete", trace.WithAttributes(attribute.String("result", snap.Result)))

	case engine.ModeError.String():
		errorCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "press_keys"),
			attribute.String("kind", snap.ErrorKind),
		))
		span.AddEvent("evaluation.failed", trace.WithAttributes(attribute.String("kind", snap.ErrorKind)))
		logger.Warn("evaluation failed",
			zap.String("session_id", snap.ID),
			zap.String("kind", snap.ErrorKind),
		)
	}
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (h *Handler) RunJanitor(ctx context.Context, interval time.Duration) {
	h.store.RunJanitor(ctx, interval, func(removed int) {
		if removed == 0 {
			return
		}
		sessionsCounter.Add(ctx, int64(-removed))
		observability.Logger.Info("expired sessions evicted", zap.Int("removed", removed))
	})
}
