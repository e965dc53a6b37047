package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookrent_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookrent_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookrent_rental_checkouts_total",
		Help: "Checkout attempts by result",
	}, []string{"result"})

	returns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookrent_rental_returns_total",
		Help: "Return attempts by result",
	}, []string{"result"})

	lateFees = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookrent_late_fees_total",
		Help: "Sum of late fees charged on return",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveCheckout(result string) { checkouts.WithLabelValues(result).Inc() }

func ObserveReturn(result string) { returns.WithLabelValues(result).Inc() }

// AddLateFee adds a charged fee; non-positive amounts are ignored.
func AddLateFee(amount float64) {
	if amount > 0 {
		lateFees.Add(amount)
	}
}
