// Package metrics provides the centralized Prometheus metrics registry for
// the projection service.
package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "predictions_total",
		Help:      "Total number of point predictions served",
	}, []string{"stat"})
	OddsConversionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "odds_conversions_total",
		Help:      "Total number of line-to-probability conversions",
	})
	StatsFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "stats_fetches_total",
		Help:      "Total number of upstream stats source fetches",
	}, []string{"kind", "outcome"})
	OpponentCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "opponent_cache_hits_total",
		Help:      "Total number of opponent context cache hits",
	})
	ModelsTrainedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "models_trained_total",
		Help:      "Total number of models trained",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	LastPopulateUnits = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "last_populate_units",
		Help:      "Number of player/stat units processed by the last populate run",
	})
	LastPopulateFailures = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "last_populate_failures",
		Help:      "Number of failed units in the last populate run",
	})
)

// Histogram metrics
var (
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "courtside",
		Name:      "training_duration_seconds",
		Help:      "Duration of a single model training unit",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "courtside",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of a single prediction call",
		Buckets:   prometheus.DefBuckets,
	})
)

// Registry returns the shared metrics registry, initializing it on first use
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			PredictionsTotal,
			OddsConversionsTotal,
			StatsFetchesTotal,
			OpponentCacheHitsTotal,
			ModelsTrainedTotal,
			LastPopulateUnits,
			LastPopulateFailures,
			TrainingDuration,
			PredictionLatency,
		)
	})
	return registry
}

// Handler returns an HTTP handler exposing the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

// Serve starts a metrics server on the given port and path
func Serve(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
