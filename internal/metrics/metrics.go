// Package metrics defines Prometheus metrics for the analysis engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis engine metrics
var (
	// AnalysisTotal tracks scoring operations by kind and outcome
	AnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_operations_total",
			Help: "Total scoring operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// AnalysisDuration tracks scoring latency in seconds
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_operation_duration_seconds",
			Help:    "Scoring operation duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	// SentimentModelUsed tracks which model path produced each result
	SentimentModelUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_model_used_total",
			Help: "Sentiment results by model path (lexicon/ensemble/fallback)",
		},
		[]string{"model"},
	)

	// CrisisDetectionsTotal tracks crisis-flagged mentions by level
	CrisisDetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crisis_detections_total",
			Help: "Crisis detections by resulting level",
		},
		[]string{"level"},
	)

	// CrisisMemoryBrands tracks brands currently held in crisis memory
	CrisisMemoryBrands = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crisis_memory_brands",
			Help: "Number of brands with entries in crisis detection memory",
		},
	)
)

// Neural adapter metrics
var (
	// NeuralCallsTotal tracks neural inference calls by outcome
	NeuralCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neural_calls_total",
			Help: "Neural inference calls by outcome (ok/error/rate_limited/canceled/empty)",
		},
		[]string{"status"},
	)

	// NeuralCallDuration tracks neural inference latency in seconds
	NeuralCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "neural_call_duration_seconds",
			Help:    "Neural inference call duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		},
	)

	// NeuralBreakerStateChanges tracks circuit breaker transitions
	NeuralBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neural_breaker_state_changes_total",
			Help: "Neural circuit breaker state transitions by new state",
		},
		[]string{"state"},
	)
)

// Result cache metrics
var (
	// CacheOpsTotal tracks cache lookups by outcome
	CacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_operations_total",
			Help: "Result cache operations by operation and status (hit/miss/error)",
		},
		[]string{"operation", "status"},
	)

	// CacheEntries tracks entries held by the in-process cache
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "result_cache_entries",
			Help: "Number of entries in the in-process result cache",
		},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks Redis commands by name and outcome
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by command and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis command latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks failed Redis connection attempts
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)
)
