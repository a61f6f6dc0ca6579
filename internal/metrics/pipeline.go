package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "wbindicators"

// Pipeline Prometheus metrics.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total number of indicator provider requests",
		},
		[]string{"endpoint", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Indicator provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_total",
			Help:      "Provider response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Observation batches fetched",
		},
		[]string{"result"}, // "merged" / "empty"
	)

	ObservationsMerged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_merged_total",
			Help:      "Non-null observations merged into row sets",
		},
	)

	TopicsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topics_total",
			Help:      "Per-country topic outcomes",
		},
		[]string{"outcome"}, // "published" / "no_data"
	)

	CountriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "countries_total",
			Help:      "Per-country run outcomes",
		},
		[]string{"outcome"}, // "published" / "no_data" / "failed" / "skipped"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ProviderRequestsTotal)
	prometheus.MustRegister(ProviderRequestDuration)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(BatchesTotal)
	prometheus.MustRegister(ObservationsMerged)
	prometheus.MustRegister(TopicsTotal)
	prometheus.MustRegister(CountriesTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	pipelineMetricsRegistered = true
}
