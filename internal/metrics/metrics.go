// Package metrics exposes prometheus metrics for the local function host.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funchost_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funchost_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "funchost_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	invocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funchost_function_invocations_total",
			Help: "Total number of function invocations",
		},
		[]string{"function", "status"},
	)

	invocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funchost_function_invocation_duration_seconds",
			Help:    "Function invocation latency in seconds",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 30, 60},
		},
		[]string{"function"},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordInvocation records one function invocation outcome.
func RecordInvocation(function, status string, duration time.Duration) {
	invocationsTotal.WithLabelValues(function, status).Inc()
	invocationDuration.WithLabelValues(function).Observe(duration.Seconds())
}

// IncrementInFlight marks a request as in progress.
func IncrementInFlight() {
	httpRequestsInFlight.Inc()
}

// DecrementInFlight marks a request as finished.
func DecrementInFlight() {
	httpRequestsInFlight.Dec()
}

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
