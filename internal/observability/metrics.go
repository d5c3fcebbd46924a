package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civic"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	feedEvents      *prometheus.CounterVec
	feedDropped     *prometheus.CounterVec
	feedDuplicates  prometheus.Counter
	subscriptions   prometheus.Gauge
	exports         *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Error responses by route and error code.",
		}, []string{"route", "method", "code"}),
		feedEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_total",
			Help:      "Change events published to the hub.",
		}, []string{"table", "type"}),
		feedDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_dropped_total",
			Help:      "Change events dropped because a subscriber inbox was full.",
		}, []string{"table"}),
		feedDuplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_duplicate_total",
			Help:      "Change events skipped as already delivered.",
		}),
		subscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_subscriptions",
			Help:      "Open change-feed subscriptions.",
		}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_exports_total",
			Help:      "Generated report exports by type and format.",
		}, []string{"type", "format"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// FeedPublished counts an event accepted by the hub.
func (m *Metrics) FeedPublished(table, eventType string) {
	if m == nil {
		return
	}
	m.feedEvents.WithLabelValues(table, eventType).Inc()
}

// FeedDropped counts an event a subscriber could not take.
func (m *Metrics) FeedDropped(table string) {
	if m == nil {
		return
	}
	m.feedDropped.WithLabelValues(table).Inc()
}

// FeedDuplicate counts a replayed event.
func (m *Metrics) FeedDuplicate() {
	if m == nil {
		return
	}
	m.feedDuplicates.Inc()
}

// SubscriptionOpened tracks open subscriptions.
func (m *Metrics) SubscriptionOpened() {
	if m == nil {
		return
	}
	m.subscriptions.Inc()
}

func (m *Metrics) SubscriptionClosed() {
	if m == nil {
		return
	}
	m.subscriptions.Dec()
}

// ReportExported counts a successful export.
func (m *Metrics) ReportExported(reportType, format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(reportType, format).Inc()
}
