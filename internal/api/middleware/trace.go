package middleware

import (
	"log/slog"
	"net/http"

	"github.com/calegray/tradepost/internal/api/shared"
	"github.com/calegray/tradepost/internal/platform/logger"
)

// Trace adds a trace ID to the request context and attaches a request-scoped
// logger carrying it. This middleware should be applied early in the chain so
// that all subsequent handlers have access to the trace ID.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
