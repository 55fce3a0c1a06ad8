package context

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID is the key for storing request ID in context.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger is the key for storing request-scoped logger in context.
	KeyLogger ContextKey = "logger"

	// KeySessionSubject is the key for the user id read from the session token.
	KeySessionSubject ContextKey = "session_subject"

	// KeySessionRoles is the key for the roles read from the session token.
	KeySessionRoles ContextKey = "session_roles"

	// HeaderXRequestID is the HTTP header name for request ID. It is also
	// forwarded on calls to the backend so both sides log the same id.
	HeaderXRequestID = "X-Request-Id"
)

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext extracts the request ID from standard context.Context.
// If not found, returns empty string.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLoggerOrDefault extracts the request-scoped logger from context.Context.
// If not found, returns the provided fallback logger.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// WithSessionSubject returns a new context carrying the session subject.
func WithSessionSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, KeySessionSubject, subject)
}

// GetSessionSubject returns the session subject or "" for anonymous requests.
func GetSessionSubject(ctx context.Context) string {
	subject, _ := ctx.Value(KeySessionSubject).(string)

	return subject
}

// WithSessionRoles returns a new context carrying the session roles.
func WithSessionRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, KeySessionRoles, roles)
}

// GetSessionRoles returns the session roles, nil for anonymous requests.
func GetSessionRoles(ctx context.Context) []string {
	roles, _ := ctx.Value(KeySessionRoles).([]string)

	return roles
}
