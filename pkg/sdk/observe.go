package symptomd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation statuses used as the "status" metric label.
const (
	statusOK          = "ok"
	statusEmptyInput  = "empty_input"
	statusUnavailable = "unavailable"
	statusError       = "error"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	predictions *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "symptomd",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "symptomd",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "symptomd",
			Subsystem: "sdk",
			Name:      "predictions_total",
			Help:      "Successful SDK predictions by reported disease.",
		}, []string{"disease", "fallback"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.predictions); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one, so several
// clients can share one registerer.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("symptomd: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("symptomd: register metric: %w", err)
	}
	return nil
}

// statusOf maps an operation error to its metric label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrEmptyInput):
		return statusEmptyInput
	case errors.Is(err, ErrModelUnavailable):
		return statusUnavailable
	default:
		return statusError
	}
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := statusOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch status {
	case statusOK:
		o.logger.Debug("operation completed", "op", op, "duration", dur)
	case statusEmptyInput:
		// Caller input problem, not an SDK fault.
		o.logger.Debug("operation rejected", "op", op, "duration", dur, "error", err)
	default:
		o.logger.Warn("operation failed", "op", op, "status", status, "duration", dur, "error", err)
	}
}

// observePrediction counts a served prediction by disease.
func (o *observer) observePrediction(p *Prediction) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		fallback := "false"
		if p.Fallback {
			fallback = "true"
		}
		o.metrics.predictions.WithLabelValues(p.Disease, fallback).Inc()
	}
	if o.logger != nil && p.Fallback {
		o.logger.Warn("predicted disease has no guidance, default reported",
			"disease", p.Disease, "model_version", p.ModelVersion)
	}
}
