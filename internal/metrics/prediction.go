package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prediction and model lifecycle metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "symptomd",
			Name:      "predictions_total",
			Help:      "Predictions by reported disease and outcome",
		},
		[]string{"disease", "outcome"}, // outcome: ok / fallback / empty_input / unavailable / failed
	)

	PredictionConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "symptomd",
			Name:      "prediction_confidence_percent",
			Help:      "Confidence of successful predictions",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
		},
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "symptomd",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent in the classifier per prediction",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
		},
	)

	LabelFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "symptomd",
			Name:      "label_fallbacks_total",
			Help:      "Predictions whose label had no catalog entry",
		},
		[]string{"predicted"},
	)

	ModelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "symptomd",
			Name:      "model_loads_total",
			Help:      "Model load attempts by trigger and result",
		},
		[]string{"trigger", "result"},
	)

	ModelAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "symptomd",
			Name:      "model_available",
			Help:      "1 when a verified model is serving",
		},
	)

	ExtractorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "symptomd",
			Name:      "extractor_requests_total",
			Help:      "Free-text symptom extraction requests",
		},
		[]string{"model", "status"},
	)

	ExtractorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "symptomd",
			Name:      "extractor_request_duration_seconds",
			Help:      "Free-text symptom extraction duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	ExtractorBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "symptomd",
			Name:      "extractor_breaker_state",
			Help:      "Extractor circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
	)

	ExtractorCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "symptomd",
			Name:      "extractor_cache_total",
			Help:      "Extraction cache lookups by result (hit/miss)",
		},
		[]string{"result"},
	)

	StatsErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "symptomd",
			Name:      "stats_errors_total",
			Help:      "Failed prediction statistics operations",
		},
		[]string{"op"},
	)
)

var registerPredictionOnce sync.Once

// RegisterPredictionMetrics registers prediction, model and extractor metrics.
// Safe to call more than once.
func RegisterPredictionMetrics() {
	registerPredictionOnce.Do(func() {
		prometheus.MustRegister(
			PredictionsTotal,
			PredictionConfidence,
			PredictionDuration,
			LabelFallbacksTotal,
			ModelLoadsTotal,
			ModelAvailable,
			ExtractorRequestsTotal,
			ExtractorRequestDuration,
			ExtractorBreakerState,
			ExtractorCacheTotal,
			StatsErrorsTotal,
		)
	})
}
