// Package http assembles the service's HTTP surface: middleware chain,
// public routes, and the authenticated API.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suntzu974/zevis/internal/platform/metrics"
	"github.com/suntzu974/zevis/internal/platform/middleware"
	"github.com/suntzu974/zevis/internal/ratelimit"
)

// Registrar mounts a feature's routes on a router. Every handler package
// exposes one.
type Registrar interface {
	Register(r chi.Router)
}

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Deps carries everything the router wires together.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Limiter *ratelimit.Limiter
	Auth    middleware.TokenVerifier

	// Public routes: auth endpoints and the websocket upgrade.
	Public []Registrar
	// Protected routes sit behind the bearer token gate.
	Protected []Registrar

	// Optional backends surfaced by /health. Nil entries are skipped.
	Postgres Pinger
	Redis    Pinger
}

// New builds the full router. Ordering matters: recovery wraps everything,
// the request id is set before logging, and rate limiting runs before auth
// so rejected bursts never pay for token verification.
func New(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Tracing)
	r.Use(middleware.Instrument(d.Metrics))

	r.Get("/health", handleHealth(d))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(d.Limiter, d.Metrics, d.Logger))

		for _, reg := range d.Public {
			reg.Register(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Auth, d.Logger))
			for _, reg := range d.Protected {
				reg.Register(r)
			}
		})
	})

	return r
}

type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func handleHealth(d Deps) http.HandlerFunc {
	backends := map[string]Pinger{}
	if d.Postgres != nil {
		backends["postgres"] = d.Postgres
	}
	if d.Redis != nil {
		backends["redis"] = d.Redis
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := healthStatus{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		code := http.StatusOK
		if len(backends) > 0 {
			status.Checks = make(map[string]string, len(backends))
			for name, p := range backends {
				if err := p.Ping(ctx); err != nil {
					d.Logger.ErrorContext(ctx, "health check failed", "backend", name, "error", err)
					status.Checks[name] = "down"
					status.Status = "degraded"
					code = http.StatusServiceUnavailable
					continue
				}
				status.Checks[name] = "up"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}
