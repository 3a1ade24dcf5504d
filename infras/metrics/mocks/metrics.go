package mocks

import (
	"net/http"
	"time"

	"tourdesk/infras/metrics"
)

type metricsImpl struct {
}

// ObserveHTTP implements metrics.Metrics.
func (m *metricsImpl) ObserveHTTP(_, _ string, _ int, _ time.Duration) {
}

// IncQuote implements metrics.Metrics.
func (m *metricsImpl) IncQuote(_ bool) {
}

// IncOverAllocationRejected implements metrics.Metrics.
func (m *metricsImpl) IncOverAllocationRejected(_ string) {
}

// IncBulkUpdate implements metrics.Metrics.
func (m *metricsImpl) IncBulkUpdate(_ string, _ int) {
}

// IncConsumed implements metrics.Metrics.
func (m *metricsImpl) IncConsumed(_ string, _ bool) {
}

// Handler implements metrics.Metrics.
func (m *metricsImpl) Handler() http.Handler {
	return http.NotFoundHandler()
}

func NewMetrics() metrics.Metrics {
	return &metricsImpl{}
}
