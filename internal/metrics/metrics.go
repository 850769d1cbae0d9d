// Package metrics provides the centralized Prometheus registry for the
// prediction engine.
package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

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
	PredictionsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_scout",
		Name:      "predictions_scored_total",
		Help:      "Total number of predictions scored and upserted",
	})
	InsufficientDataSkipsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_scout",
		Name:      "insufficient_data_skips_total",
		Help:      "Total number of players skipped for lack of usable stats",
	})
	ScoringErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_scout",
		Name:      "scoring_errors_total",
		Help:      "Total number of per-item scoring or persistence failures",
	})
	PredictionsReconciledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_scout",
		Name:      "predictions_reconciled_total",
		Help:      "Total number of predictions reconciled against outcomes",
	})
	PushOutcomesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_scout",
		Name:      "push_outcomes_total",
		Help:      "Total number of outcomes landing exactly on the line",
	})
)

// Gauge metrics
var (
	LastScanTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_scout",
		Name:      "last_scan_timestamp_seconds",
		Help:      "Unix timestamp of the last completed scan cycle",
	})
	GamesPendingReconciliation = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_scout",
		Name:      "games_pending_reconciliation",
		Help:      "Number of games with predictions awaiting an outcome",
	})
	ModelAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "prop_scout",
		Name:      "model_accuracy",
		Help:      "Latest evaluated accuracy per model version and prop type",
	}, []string{"model_version", "prop_type"})
	ValueBetsIdentified = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "prop_scout",
		Name:      "value_bets_identified",
		Help:      "Value bets in the latest evaluated period per model version and prop type",
	}, []string{"model_version", "prop_type"})
)

// Histogram metrics
var (
	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_scout",
		Name:      "scan_duration_seconds",
		Help:      "Duration of full scan cycles in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
	ReconcileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_scout",
		Name:      "reconcile_duration_seconds",
		Help:      "Duration of per-game reconciliation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// Registry returns the process-wide metrics registry, registering all
// collectors on first use
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			PredictionsScoredTotal,
			InsufficientDataSkipsTotal,
			ScoringErrorsTotal,
			PredictionsReconciledTotal,
			PushOutcomesTotal,
			LastScanTimestamp,
			GamesPendingReconciliation,
			ModelAccuracy,
			ValueBetsIdentified,
			ScanDuration,
			ReconcileDuration,
		)
	})
	return registry
}

// Handler returns an HTTP handler exposing the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

// StartServer serves the metrics endpoint on the given port. It blocks, so
// callers run it in a goroutine.
func StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
