// file: internal/logger/operation.go
// version: 1.0.0
// guid: 7a4c2e90-1b5d-4f38-9c6e-0d2a8b4f1e73

package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// OperationLogger tracks the lifecycle of one logical operation
// (a fan-out search, a key validation, an HTTP handler).
type OperationLogger struct {
	log       zerolog.Logger
	operation string
	requestID string
	startTime time.Time
	details   map[string]any
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(base zerolog.Logger, operation, requestID string) *OperationLogger {
	return &OperationLogger{
		log:       base,
		operation: operation,
		requestID: requestID,
		startTime: time.Now(),
		details:   make(map[string]any),
	}
}

// AddDetail adds a contextual detail to every subsequent entry.
func (ol *OperationLogger) AddDetail(key string, value any) {
	ol.details[key] = value
}

func (ol *OperationLogger) event(e *zerolog.Event) *zerolog.Event {
	e = e.Str("operation", ol.operation)
	if ol.requestID != "" {
		e = e.Str("request_id", ol.requestID)
	}
	if len(ol.details) > 0 {
		e = e.Fields(ol.details)
	}
	return e
}

// LogStart logs the start of the operation
func (ol *OperationLogger) LogStart() {
	ol.event(ol.log.Debug()).Msg("operation started")
}

// LogSuccess logs completion along with its duration.
func (ol *OperationLogger) LogSuccess() {
	ol.event(ol.log.Info()).Dur("duration", time.Since(ol.startTime)).Msg("operation completed")
}

// LogError logs a failure along with its duration.
func (ol *OperationLogger) LogError(err error) {
	ol.event(ol.log.Error()).Err(err).Dur("duration", time.Since(ol.startTime)).Msg("operation failed")
}

// LogWarning logs a degraded-but-successful outcome.
func (ol *OperationLogger) LogWarning(message string) {
	ol.event(ol.log.Warn()).Dur("duration", time.Since(ol.startTime)).Msg(message)
}

// Elapsed returns the time since the operation started.
func (ol *OperationLogger) Elapsed() time.Duration {
	return time.Since(ol.startTime)
}

type requestIDKey struct{}

// WithRequestID stores a request ID on ctx for downstream operation logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored on ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
