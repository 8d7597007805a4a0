package middleware

import (
	"log/slog"
	"net/http"

	"cardforge/internal/api/shared"
)

// TraceMiddleware assigns a trace ID to each request so log lines and
// error responses for the same request can be correlated. Apply it early
// in the chain so every handler sees the ID.
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
