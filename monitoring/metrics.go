// Package monitoring exposes the service's Prometheus metrics.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "income_predictions_total",
			Help: "Total number of predictions served, by label",
		},
		[]string{"label"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "income_prediction_errors_total",
			Help: "Total number of rejected prediction requests, by error code",
		},
		[]string{"code"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "income_prediction_duration_seconds",
			Help:    "Duration of transform and predict",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
	)

	PredictionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "income_prediction_cache_hits_total",
			Help: "Predictions answered from the in-process cache",
		},
	)

	ModelReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "income_model_ready",
			Help: "1 when the model artifact is loaded and serving",
		},
	)
)

// ObservePrediction records one successful prediction.
func ObservePrediction(label string, started time.Time) {
	PredictionsTotal.WithLabelValues(label).Inc()
	PredictionDuration.Observe(time.Since(started).Seconds())
}

// ObserveError records one rejected request.
func ObserveError(code string) {
	PredictionErrors.WithLabelValues(code).Inc()
}
