// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_turns_total",
			Help: "Total number of chat turns by outcome",
		},
		[]string{"outcome"},
	)

	IntentsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_intents_classified_total",
			Help: "Classified intents by data type and query type",
		},
		[]string{"data_type", "query_type"},
	)

	RetrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_retrievals_total",
			Help: "Retrievals by result kind",
		},
		[]string{"kind"},
	)

	ContextCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_context_cache_lookups_total",
			Help: "Context block cache lookups by result",
		},
		[]string{"result"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_llm_request_duration_seconds",
			Help:    "Duration of language model calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"outcome"},
	)

	LLMFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_llm_failures_total",
			Help: "Failed language model calls by error code",
		},
		[]string{"error_code"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"route"},
	)

	HTTPRequestsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_http_requests_active",
			Help: "Number of in-flight HTTP requests",
		},
	)

	RecordsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assistant_records_loaded",
			Help: "Records held in the store by kind",
		},
		[]string{"kind"},
	)
)
