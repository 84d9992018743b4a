// Package metrics holds all Prometheus metrics for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every instrument in one injected struct.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	RateLimited      prometheus.Counter
	WSSessions       prometheus.Gauge
	EventsPublished  prometheus.Counter
	EventLogFailures prometheus.Counter
	BroadcastDropped prometheus.Counter
}

// New creates and registers all metrics on reg. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zevis_http_requests_total",
			Help: "HTTP requests served, by method and status code.",
		}, []string{"method", "status"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "zevis_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		WSSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zevis_websocket_sessions",
			Help: "Currently open websocket sessions.",
		}),
		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "zevis_events_published_total",
			Help: "Domain events published to the broadcast hub.",
		}),
		EventLogFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "zevis_event_log_failures_total",
			Help: "Event log appends that failed and were swallowed.",
		}),
		BroadcastDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "zevis_broadcast_dropped_total",
			Help: "Payloads dropped for lagging websocket subscribers.",
		}),
	}
}
