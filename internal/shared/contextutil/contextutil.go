package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is private so keys cannot collide with other packages.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	loggerKey    contextKey = "logger"
)

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetRequestID reads the request id from the context, empty when absent.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithUserID stores the authenticated user id in the context.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

// GetUserID reads the authenticated user id from the context.
func GetUserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}

// WithLogger stores a request-scoped zap logger in the context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, or the given fallback so
// callers never receive nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}

// Metadata bundles the basic tracing info for manual logging.
type Metadata struct {
	RequestID string
	UserID    string
}

func ExtractMetadata(ctx context.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(ctx),
		UserID:    GetUserID(ctx),
	}
}
