package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/suntzu974/zevis/internal/platform/metrics"
	"github.com/suntzu974/zevis/internal/platform/middleware"
	"github.com/suntzu974/zevis/internal/ratelimit"
)

func limitedHandler(m *metrics.Metrics, max int) http.Handler {
	limiter := ratelimit.New(time.Minute, max)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return middleware.RateLimit(limiter, m, slog.New(slog.DiscardHandler))(inner)
}

func TestRateLimitSetsHeadersOnEveryResponse(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	handler := limitedHandler(m, 3)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.RemoteAddr = "203.0.113.7:4411"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitRejectsAfterMax(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	handler := limitedHandler(m, 3)

	request := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.RemoteAddr = "203.0.113.7:4411"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusNoContent, request().Code, "request %d", i)
	}

	rec := request()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, float64(1), testutil.ToFloat64(m.RateLimited))
}

func TestRateLimitPrefersForwardedFor(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	handler := limitedHandler(m, 1)

	request := func(forwardedFor string, port int) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.RemoteAddr = "10.0.0.1:" + strconv.Itoa(port)
		if forwardedFor != "" {
			req.Header.Set("X-Forwarded-For", forwardedFor)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Same forwarded client through the proxy shares one bucket.
	require.Equal(t, http.StatusNoContent, request("198.51.100.9, 10.0.0.1", 1000).Code)
	require.Equal(t, http.StatusTooManyRequests, request("198.51.100.9", 1001).Code)

	// A different forwarded client gets its own bucket.
	require.Equal(t, http.StatusNoContent, request("198.51.100.10", 1002).Code)
}

func TestRateLimitKeyIgnoresClientPort(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	handler := limitedHandler(m, 1)

	request := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, request("203.0.113.7:1000").Code)
	require.Equal(t, http.StatusTooManyRequests, request("203.0.113.7:2000").Code)
}
