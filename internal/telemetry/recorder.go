// Package telemetry counts submissions and their latency with Prometheus
// collectors kept on a private registry.
package telemetry

import (
	"fmt"

	"github.com/mikey/email-triage/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder is an implementation of the core Recorder interface
type PrometheusRecorder struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder with its own registry
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "email_triage_submissions_total",
				Help: "Classification submissions by input kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "email_triage_submission_duration_seconds",
				Help:    "Time from submission to terminal outcome in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
			[]string{"kind", "outcome"},
		),
	}
}

// ObserveSubmission records one terminal outcome
func (r *PrometheusRecorder) ObserveSubmission(kind core.InputKind, outcome core.Outcome, seconds float64) {
	r.submissions.WithLabelValues(string(kind), string(outcome)).Inc()
	r.duration.WithLabelValues(string(kind), string(outcome)).Observe(seconds)
}

// Registry exposes the registry for gathering
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile dumps the collected metrics in the text exposition format,
// for pickup by a node exporter textfile collector
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
