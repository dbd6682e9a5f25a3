// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the service.
const (
	// Cache protocol metrics.
	MetricCacheHits   = "tablerank_cache_hits_total"
	MetricCacheMisses = "tablerank_cache_misses_total"

	// Rating aggregation metrics.
	MetricRatingRetries = "tablerank_rating_retries_total"

	// Durable store metrics.
	MetricStoreErrors = "tablerank_store_errors_total"

	// HTTP metrics.
	MetricHTTPDuration = "tablerank_http_request_duration_seconds"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
