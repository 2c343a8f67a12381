package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tool metrics
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kokoro_mcp_tool_calls_total",
		Help: "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// Backend metrics
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kokoro_mcp_backend_requests_total",
		Help: "Total number of requests sent to the Kokoro backend",
	}, []string{"endpoint", "outcome"})

	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kokoro_mcp_backend_latency_seconds",
		Help:    "Kokoro backend request latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	}, []string{"endpoint"})

	// Audio metrics
	audioBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kokoro_mcp_audio_bytes_total",
		Help: "Total audio bytes delivered",
	}, []string{"delivery"}) // delivery: "file" or "inline"

	fallbackCatalog = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kokoro_mcp_voice_fallback_total",
		Help: "Number of voice listings served from the built-in catalog",
	})

	backendState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kokoro_mcp_backend_state",
		Help: "Last observed backend state (0=unknown, 1=online, 2=offline)",
	})
)

// RecordToolCall records the outcome of one tool invocation
func RecordToolCall(tool string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	toolCalls.WithLabelValues(tool, status).Inc()
}

// RecordBackendRequest records one outbound call and its latency
func RecordBackendRequest(endpoint, outcome string, started time.Time) {
	backendRequests.WithLabelValues(endpoint, outcome).Inc()
	backendLatency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

// RecordAudioBytes records audio bytes delivered to a caller
func RecordAudioBytes(delivery string, bytes int) {
	audioBytes.WithLabelValues(delivery).Add(float64(bytes))
}

// RecordFallbackCatalog counts a voice listing answered from the static table
func RecordFallbackCatalog() {
	fallbackCatalog.Inc()
}

// UpdateBackendState sets the backend state gauge (0=unknown, 1=online, 2=offline)
func UpdateBackendState(state int) {
	backendState.Set(float64(state))
}
