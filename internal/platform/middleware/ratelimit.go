package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/suntzu974/zevis/internal/platform/metrics"
	"github.com/suntzu974/zevis/internal/ratelimit"
	"github.com/suntzu974/zevis/pkg/problem"
)

// RateLimit gates requests by client source address before any handler runs.
// It is independent of RequireAuth and may be composed on either side of it.
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientAddr(r)
			res := limiter.Allow(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				m.RateLimited.Inc()
				logger.WarnContext(r.Context(), "rate limit exceeded",
					"client", key,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				problem.RateLimited("Request rate limit exceeded, retry later").Write(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr identifies the client for rate limiting: the first
// X-Forwarded-For hop when present, otherwise the peer address without its
// port.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
