// Package metrics holds the prometheus collectors for the inventory service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vivita_inventory_transactions_recorded_total",
		Help: "Ledger transactions recorded, by transaction type",
	}, []string{"type"})

	transactionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vivita_inventory_transactions_rejected_total",
		Help: "Ledger transactions rejected, by reason",
	}, []string{"reason"})

	lowStockItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vivita_inventory_low_stock_items",
		Help: "Active items at or below their minimum quantity at the last summary",
	})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vivita_inventory_cache_requests_total",
		Help: "Analytics cache lookups, by result (hit, miss, error)",
	}, []string{"result"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vivita_inventory_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route", "status"})
)

// Rejection reasons
const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonInvalid           = "invalid"
	ReasonInactiveItem      = "inactive_item"
	ReasonNotFound          = "not_found"
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

func TransactionRecorded(txType string) {
	transactionsRecorded.WithLabelValues(txType).Inc()
}

func TransactionRejected(reason string) {
	transactionsRejected.WithLabelValues(reason).Inc()
}

func SetLowStockItems(n int) {
	lowStockItems.Set(float64(n))
}

func CacheLookup(result string) {
	cacheRequests.WithLabelValues(result).Inc()
}

// ObserveHTTP records request latency. Call with time.Now() taken at the
// start of the request.
func ObserveHTTP(method, route, status string, start time.Time) {
	httpDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
