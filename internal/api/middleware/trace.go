package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rgareau/taskline/internal/api/shared"
)

// TraceMiddleware assigns each request a trace ID and stores it in the
// request context. Apply it before any middleware or handler that logs,
// so every log line for the request can carry the same trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.Debug("request started",
			slog.String("trace_id", shared.GetTraceID(ctx)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
