// internal/pkg/metrics/metrics.go
package metrics

import (
	"autohub/internal/pkg/resilience"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders persisted by the order saga.",
	})
	OrdersFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order sagas that ended without an order, by outcome code.",
	}, []string{"code"})
	ReservationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reservation_failures_total",
		Help: "Rejected or failed reservations, by reason.",
	}, []string{"reason"})
	CatalogLookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_lookup_duration_seconds",
		Help:    "Latency of catalog detail lookups, fallback included.",
		Buckets: prometheus.DefBuckets,
	})
	DownstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_downstream_duration_seconds",
		Help:    "Latency of gateway calls to downstream services.",
		Buckets: prometheus.DefBuckets,
	}, []string{"downstream"})
	DownstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_downstream_errors_total",
		Help: "Failed gateway calls to downstream services.",
	}, []string{"downstream"})
	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open.",
	}, []string{"name"})
	BulkheadRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulkhead_rejections_total",
		Help: "Calls rejected because the bulkhead was full.",
	}, []string{"name"})
)

// ResilienceOptions reports breaker transitions and bulkhead rejections.
func ResilienceOptions() []resilience.Option {
	return []resilience.Option{
		resilience.WithStateChangeHook(func(name string, _, to resilience.State) {
			BreakerState.WithLabelValues(name).Set(float64(to))
		}),
		resilience.WithRejectHook(func(name string) {
			BulkheadRejections.WithLabelValues(name).Inc()
		}),
	}
}
