package metrics

import (
	"net/http"
	"strconv"
	"time"

	"tourdesk/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tourdesk"

type Metrics interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
	IncQuote(overAllocated bool)
	IncOverAllocationRejected(operation string)
	IncBulkUpdate(kind string, periods int)
	IncConsumed(topic string, success bool)
	Handler() http.Handler
}

type metricsImpl struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	quotes        *prometheus.CounterVec
	overAllocated *prometheus.CounterVec
	bulkUpdates   *prometheus.CounterVec
	bulkPeriods   *prometheus.CounterVec
	consumed      *prometheus.CounterVec
}

func New(cfg *config.Config) Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	constLabels := prometheus.Labels{"app": cfg.App.Name}

	m := &metricsImpl{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "HTTP requests by method, route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "pricing",
			Name:        "quotes_total",
			Help:        "Booking quotes computed, split by allocation verdict.",
			ConstLabels: constLabels,
		}, []string{"over_allocated"}),
		overAllocated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "pricing",
			Name:        "over_allocation_rejected_total",
			Help:        "Booking writes rejected because rooms exceed travelers.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		bulkUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "period",
			Name:        "bulk_updates_total",
			Help:        "Bulk period updates applied.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		bulkPeriods: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "period",
			Name:        "bulk_updated_periods_total",
			Help:        "Periods touched by bulk updates.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		consumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "kafka",
			Name:        "consumed_messages_total",
			Help:        "Kafka messages handled by the worker.",
			ConstLabels: constLabels,
		}, []string{"topic", "result"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.quotes,
		m.overAllocated,
		m.bulkUpdates,
		m.bulkPeriods,
		m.consumed,
	)

	return m
}

func (m *metricsImpl) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *metricsImpl) IncQuote(overAllocated bool) {
	m.quotes.WithLabelValues(strconv.FormatBool(overAllocated)).Inc()
}

func (m *metricsImpl) IncOverAllocationRejected(operation string) {
	m.overAllocated.WithLabelValues(operation).Inc()
}

func (m *metricsImpl) IncBulkUpdate(kind string, periods int) {
	m.bulkUpdates.WithLabelValues(kind).Inc()
	m.bulkPeriods.WithLabelValues(kind).Add(float64(periods))
}

func (m *metricsImpl) IncConsumed(topic string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}

	m.consumed.WithLabelValues(topic, result).Inc()
}

func (m *metricsImpl) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
