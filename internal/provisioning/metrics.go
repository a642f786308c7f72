package provisioning

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by a Manager.
// A nil *Metrics records nothing.
type Metrics struct {
	operationsTotal         *prometheus.CounterVec
	operationWait           *prometheus.HistogramVec
	listPagesTotal          *prometheus.CounterVec
	validationFailuresTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gcectl",
				Name:      "operations_total",
				Help:      "Total number of lifecycle workflows by kind and result",
			},
			[]string{"kind", "result"},
		),
		operationWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gcectl",
				Name:      "operation_wait_seconds",
				Help:      "Time spent polling until a target status was reached",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~8.5min
			},
			[]string{"target"},
		),
		listPagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gcectl",
				Name:      "list_pages_total",
				Help:      "Total number of list pages fetched by resource",
			},
			[]string{"resource"},
		),
		validationFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gcectl",
				Name:      "validation_failures_total",
				Help:      "Total number of rejected create requests by field",
			},
			[]string{"field"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.operationsTotal,
			m.operationWait,
			m.listPagesTotal,
			m.validationFailuresTotal,
		)
	}

	return m
}

func (m *Metrics) recordOperation(kind string, err error) {
	m.recordResult(kind, resultLabel(err))
}

func (m *Metrics) recordResult(kind, result string) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) recordWait(target string, seconds float64) {
	if m == nil {
		return
	}
	m.operationWait.WithLabelValues(target).Observe(seconds)
}

func (m *Metrics) recordPage(resource string) {
	if m == nil {
		return
	}
	m.listPagesTotal.WithLabelValues(resource).Inc()
}

func (m *Metrics) recordValidationFailure(field string) {
	if m == nil {
		return
	}
	m.validationFailuresTotal.WithLabelValues(field).Inc()
}
