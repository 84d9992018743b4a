package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/suntzu974/zevis/pkg/problem"
)

// Recovery converts handler panics into 500 problem responses instead of
// tearing down the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "handler panic",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					problem.Internal().Write(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
