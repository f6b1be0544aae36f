// Package middleware provides the HTTP middleware chain: trace IDs, JWT
// authentication for user-facing routes, and the shared-secret check for
// service-to-service routes.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/nordvik/sagapay/internal/api/shared"
	"github.com/nordvik/sagapay/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context, along with a
// logger pre-tagged with it. Apply it early in the chain so every
// subsequent handler can correlate its logs.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)
		ctx = logger.WithLogger(ctx, slog.Default().With(slog.String("trace_id", traceID)))

		logger.FromContext(ctx).Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
