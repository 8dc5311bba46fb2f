package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace prefixes every metric name.
const Namespace = "blogsearch"

// Search kinds used as the "kind" label.
const (
	KindArticles    = "articles"
	KindAuthors     = "authors"
	KindTags        = "tags"
	KindSuggestions = "suggestions"
)

// Search, gateway, feed, index and interaction Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search queries",
		},
		[]string{"kind", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Search query duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"kind"},
	)

	GatewayDispatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "gateway_dispatches_total",
			Help:      "Debounced queries dispatched to the query processor",
		},
	)

	GatewayDiscardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "gateway_discarded_total",
			Help:      "Search results dropped because a newer query superseded them",
		},
	)

	FeedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "feed_records_total",
			Help:      "Content feed records by validation outcome",
		},
		[]string{"status"}, // "valid" / "invalid"
	)

	FeedFetchErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "feed_fetch_errors_total",
			Help:      "Content feed fetches that failed",
		},
	)

	IndexDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "index_documents",
			Help:      "Documents held by each search index",
		},
		[]string{"index"},
	)

	InteractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "interactions_total",
			Help:      "Like and share actions by outcome",
		},
		[]string{"action", "status"}, // status: "ok" / "reverted"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers every blogsearch metric with the default registry. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	MustRegister(prometheus.DefaultRegisterer)
	searchMetricsRegistered = true
}

// MustRegister registers the HTTP and search metrics with reg.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		SearchRequestsTotal,
		SearchDuration,
		GatewayDispatchesTotal,
		GatewayDiscardedTotal,
		FeedRecordsTotal,
		FeedFetchErrorsTotal,
		IndexDocuments,
		InteractionsTotal,
	)
}
