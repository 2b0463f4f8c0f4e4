// Package metrics counts remote calls and synchronization batches.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"alcyxob/fitness-sync/internal/repository"
)

// Result labels.
const (
	ResultOK           = "ok"
	ResultNotFound     = "not_found"
	ResultConflict     = "conflict"
	ResultValidation   = "validation"
	ResultConnectivity = "connectivity"
	ResultUnauthorized = "unauthorized"
	ResultCancelled    = "cancelled"
	ResultError        = "error"
)

// Recorder owns a private registry so several clients (and tests) never
// collide on metric registration. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// remoteCalls counts API calls by operation and result
	remoteCalls *prometheus.CounterVec

	// remoteDuration tracks API call latency
	remoteDuration *prometheus.HistogramVec

	// batches counts synchronization batches by parent kind and result
	batches *prometheus.CounterVec

	// batchSize tracks the number of child calls a batch planned
	batchSize *prometheus.HistogramVec
}

// New creates a recorder with all collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		remoteCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fitsync_remote_calls_total",
			Help: "Total API calls by operation and result",
		}, []string{"operation", "result"}),
		remoteDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitsync_remote_call_duration_seconds",
			Help:    "API call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"operation"}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fitsync_batches_total",
			Help: "Total synchronization batches by parent kind and result",
		}, []string{"parent_kind", "result"}),
		batchSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitsync_batch_calls",
			Help:    "Child calls planned per synchronization batch",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"parent_kind"}),
	}
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveCall records one API call.
func (r *Recorder) ObserveCall(operation string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.remoteCalls.WithLabelValues(operation, Result(err)).Inc()
	r.remoteDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveBatch records one synchronization batch.
func (r *Recorder) ObserveBatch(parentKind string, calls int, err error) {
	if r == nil {
		return
	}
	r.batches.WithLabelValues(parentKind, Result(err)).Inc()
	r.batchSize.WithLabelValues(parentKind).Observe(float64(calls))
}

// WriteTextfile dumps the metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// Result classifies err into a label value.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCancelled
	case errors.Is(err, repository.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, repository.ErrConflict):
		return ResultConflict
	case errors.Is(err, repository.ErrValidation):
		return ResultValidation
	case errors.Is(err, repository.ErrConnectivity):
		return ResultConnectivity
	case errors.Is(err, repository.ErrUnauthorized):
		return ResultUnauthorized
	default:
		return ResultError
	}
}
