// Package shared holds the helpers common to all HTTP handlers: request
// context keys, trace IDs and response writing.
package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the key type for request context values.
type ContextKey string

const (
	// AuthClaimsContextKey is the context key for the authenticated claims.
	AuthClaimsContextKey ContextKey = "authClaims"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a fresh trace ID to the context for correlating logs
// and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.New().String())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
