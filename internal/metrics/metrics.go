package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "signshop",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signshop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "signshop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	invoicesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "signshop",
			Subsystem: "invoices",
			Name:      "created_total",
			Help:      "Total number of invoices stored.",
		},
	)

	invoiceAmount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "signshop",
			Subsystem: "invoices",
			Name:      "amount",
			Help:      "Total amount of stored invoices.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 14), // 10 to ~80k
		},
	)

	invoiceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signshop",
			Subsystem: "invoices",
			Name:      "rejected_total",
			Help:      "Invoices that failed validation or storage.",
		},
		[]string{"reason"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		invoicesCreated,
		invoiceAmount,
		invoiceFailures,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// StartRequest marks a request in flight and returns the func that records it.
func StartRequest() func(method, route string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, route string, status int) {
		httpInFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		method = strings.ToUpper(method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordInvoice counts a stored invoice and its total.
func RecordInvoice(total decimal.Decimal) {
	invoicesCreated.Inc()
	invoiceAmount.Observe(total.InexactFloat64())
}

// RecordInvoiceRejected counts an invoice that was not stored.
func RecordInvoiceRejected(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	invoiceFailures.WithLabelValues(reason).Inc()
}
