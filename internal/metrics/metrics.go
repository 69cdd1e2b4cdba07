// Package metrics provides Prometheus instrumentation for the simulation
// and calibration pipeline.
//
// Metrics exposed:
//   - episbc_simulate_seconds: Histogram of batch generation duration
//   - episbc_simulations_total: Counter of scenarios generated
//   - episbc_study_seconds: Histogram of full study duration
//   - episbc_studies_total: Counter of studies by final status
//   - episbc_errors_total: Counter of errors by component and reason
//
// All metrics are registered on the registry supplied at construction and
// served from the /metrics HTTP endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	SimulateSeconds  prometheus.Histogram
	SimulationsTotal prometheus.Counter
	StudySeconds     prometheus.Histogram
	StudiesTotal     *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
}

// New creates all pipeline metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SimulateSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "episbc_simulate_seconds",
			Help:    "Time spent generating a simulation batch",
			Buckets: prometheus.DefBuckets,
		}),

		SimulationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "episbc_simulations_total",
			Help: "Total number of scenarios generated",
		}),

		StudySeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "episbc_study_seconds",
			Help:    "Time spent running a full calibration study",
			Buckets: prometheus.ExponentialBuckets(0.05, 4, 8),
		}),

		StudiesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "episbc_studies_total",
			Help: "Total number of studies by final status",
		}, []string{"status"}),

		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "episbc_errors_total",
			Help: "Total number of errors by component and reason",
		}, []string{"component", "reason"}),
	}
}

// RecordBatch records one generated batch and its duration.
func (m *Metrics) RecordBatch(scenarios int, seconds float64) {
	m.SimulationsTotal.Add(float64(scenarios))
	m.SimulateSeconds.Observe(seconds)
}

// RecordStudy records one finished study with its final status.
func (m *Metrics) RecordStudy(status string, seconds float64) {
	m.StudiesTotal.WithLabelValues(status).Inc()
	m.StudySeconds.Observe(seconds)
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(component, reason string) {
	m.ErrorsTotal.WithLabelValues(component, reason).Inc()
}
