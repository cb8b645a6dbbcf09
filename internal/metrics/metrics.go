package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pg_predictions_total",
			Help: "Completed predictions by verdict",
		},
		[]string{"label", "confidence"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pg_prediction_errors_total",
			Help: "Predictions returned as errors",
		},
		[]string{"kind"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pg_prediction_duration_seconds",
			Help:    "Time spent extracting features and querying the model",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pg_model_loaded",
			Help: "1 when a classifier is loaded",
		},
	)

	ModelLoadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pg_model_load_failures_total",
			Help: "Failed model loads",
		},
	)

	FeedIndicators = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pg_feed_indicators",
			Help: "Indicators stored per feed source",
		},
		[]string{"source"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pg_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "code"},
	)
)
