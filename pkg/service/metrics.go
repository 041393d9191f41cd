package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request outcomes for remote annotation services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewMetrics creates the service collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renci_ner",
				Subsystem: "service",
				Name:      "requests_total",
				Help:      "Requests sent to annotation services by response status.",
			},
			[]string{"service", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "renci_ner",
				Subsystem: "service",
				Name:      "request_duration_seconds",
				Help:      "Latency of annotation service requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renci_ner",
				Subsystem: "pipeline",
				Name:      "absorbed_failures_total",
				Help:      "Stage failures logged and skipped instead of failing the run.",
			},
			[]string{"service"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.failures)
	}
	return m
}

// ObserveRequest records a completed request. Transport failures use code 0.
func (m *Metrics) ObserveRequest(service string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(service, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(service).Observe(elapsed.Seconds())
}

// ObserveFailure counts a failure that a pipeline stage absorbed.
func (m *Metrics) ObserveFailure(service string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(service).Inc()
}
