package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analysis metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepfake_analyses_total",
			Help: "Total number of analyses served, by input kind and verdict",
		},
		[]string{"kind", "status"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deepfake_analysis_duration_seconds",
			Help:    "Time spent scoring and classifying one input",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"kind"},
	)

	AnalysisInputBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deepfake_analysis_input_bytes",
			Help:    "Size of analyzed inputs in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 8, 8),
		},
		[]string{"kind"},
	)

	KnownEventMatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deepfake_known_event_matches_total",
			Help: "Text inputs short-circuited by the known true event list",
		},
	)

	HeatmapsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepfake_heatmaps_rendered_total",
			Help: "Heatmap render attempts by outcome",
		},
		[]string{"outcome"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// WebSocket metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of open analysis stream connections",
		},
	)

	WebSocketMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Messages pushed to analysis stream clients",
		},
		[]string{"message_type"},
	)
)

// RecordAnalysis records a completed analysis.
func RecordAnalysis(kind, status string, size int, knownEvent bool, duration time.Duration) {
	AnalysesTotal.WithLabelValues(kind, status).Inc()
	AnalysisDuration.WithLabelValues(kind).Observe(duration.Seconds())
	AnalysisInputBytes.WithLabelValues(kind).Observe(float64(size))
	if knownEvent {
		KnownEventMatches.Inc()
	}
}

// RecordHeatmap records a heatmap render.
func RecordHeatmap(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	HeatmapsRendered.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
