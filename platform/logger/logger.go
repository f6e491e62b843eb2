// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		return l.WithRequestID(requestID)
	}

	return l
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, reason string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("reason", reason),
	)
}

// StoreError logs counter store failures. The limiter fails open on these,
// so the log line is the only trace they leave.
func (l *Logger) StoreError(operation string, err error) {
	l.Error("counter_store_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// SecurityEvent logs the suspicious-content scan of a submission.
// The scan runs against the raw, pre-sanitization input and never
// affects the response.
func (l *Logger) SecurityEvent(clientIP string, flaggedFields map[string]bool) {
	attrs := []slog.Attr{
		slog.String("client_ip", clientIP),
	}
	for field, flagged := range flaggedFields {
		attrs = append(attrs, slog.Bool("suspicious_"+field, flagged))
	}
	l.LogAttrs(context.Background(), slog.LevelWarn, "suspicious_submission", attrs...)
}

// EmailDispatchFailed logs outbound email failures.
func (l *Logger) EmailDispatchFailed(provider string, status int, err error) {
	l.Error("email_dispatch_failed",
		slog.String("provider", provider),
		slog.Int("provider_status", status),
		slog.String("error", err.Error()),
	)
}

// BotRejected logs failed bot verifications.
func (l *Logger) BotRejected(clientIP, reason string) {
	l.Warn("bot_verification_rejected",
		slog.String("client_ip", clientIP),
		slog.String("reason", reason),
	)
}
