package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ToolCallStatusFailed    = "failed"
	ToolCallStatusCompleted = "completed"
)

type Metrics struct {
	// Tool-related metrics.
	ToolCallCount    *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec

	// Upstream-related metrics.
	UpstreamRequestCount *prometheus.CounterVec
}

// NewMetrics creates AND registers metrics. It will panic if a collector has already been registered.
// Note: we are not specifying namespace in the metrics; the provided registerer may specify a "namespace"
// using [prometheus.WrapRegistererWithPrefix].
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		// Pessimistic cardinality: ~16 tools, 2 statuses = up to 32.
		ToolCallCount: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Subsystem: "tool_calls",
			Name:      "total",
			Help:      "The count of tool invocations.",
		}, []string{"tool", "status"}),
		// Pessimistic cardinality: ~16 tools, 7 buckets + 3 extra series = ~160.
		ToolCallDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: "tool_calls",
			Name:      "duration_seconds",
			Help: "The total duration of tool invocations, in seconds. " +
				"The majority of this time is upstream API processing, which this server has no control over.",
			Buckets: []float64{0.5, 2, 5, 15, 30, 60, 120},
		}, []string{"tool"}),

		// Pessimistic cardinality: 4 methods, ~6 status codes = up to 24.
		// NOTE: the path label is not included because several paths embed a site domain.
		UpstreamRequestCount: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Subsystem: "upstream_requests",
			Name:      "total",
			Help:      "The count of HTTP requests issued against the SiteBay API.",
		}, []string{"method", "status"}),
	}
}
