package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"jobtracker/internal/collection"
)

var _ collection.MetricsRecorder = (*PrometheusMetricsRecorder)(nil)

// PrometheusMetricsRecorder counts and times collection loads and persists.
type PrometheusMetricsRecorder struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder registers the collection metrics on reg. A nil
// reg registers on prometheus.DefaultRegisterer. Registering twice on the same
// registry reuses the existing collectors.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobtracker",
		Subsystem: "collection",
		Name:      "operations_total",
		Help:      "Collection load and persist operations by outcome.",
	}, []string{"collection", "operation", "status"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jobtracker",
		Subsystem: "collection",
		Name:      "operation_duration_seconds",
		Help:      "Latency of collection load and persist operations.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"collection", "operation"})

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if durations, err = register(reg, durations); err != nil {
		return nil, err
	}
	return &PrometheusMetricsRecorder{operations: operations, durations: durations}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Observe records a collection operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, key, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.operations.WithLabelValues(key, operation, status).Inc()
	r.durations.WithLabelValues(key, operation).Observe(duration.Seconds())
}
