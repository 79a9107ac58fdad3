package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	balanceEvents   *prometheus.CounterVec
	ledgerReports   *prometheus.CounterVec
	ledgerDuration  prometheus.Histogram
}

// NewMetrics initialises the registry and the base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "milkbook_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "milkbook_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	balanceEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "milkbook_balance_events_total",
		Help: "Balance-affecting events by party and operation.",
	}, []string{"party", "op"})
	reports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "milkbook_ledger_reports_total",
		Help: "Ledger reports generated by output format.",
	}, []string{"format"})
	ledgerDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "milkbook_ledger_build_seconds",
		Help:    "Time spent reconstructing a customer ledger.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	registry.MustRegister(requests, duration, balanceEvents, reports, ledgerDuration)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		balanceEvents:   balanceEvents,
		ledgerReports:   reports,
		ledgerDuration:  ledgerDuration,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveBalanceEvent counts a payment or stock receipt; party is
// "customer" or "supplier".
func (m *Metrics) ObserveBalanceEvent(party, op string) {
	if m == nil {
		return
	}
	m.balanceEvents.WithLabelValues(party, op).Inc()
}

// ObserveLedgerReport counts a generated report and its build time.
func (m *Metrics) ObserveLedgerReport(format string, took time.Duration) {
	if m == nil {
		return
	}
	m.ledgerReports.WithLabelValues(format).Inc()
	m.ledgerDuration.Observe(took.Seconds())
}

// Registerer exposes the registry for custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
