package llm

import (
	"sync"
	"time"
)

const maxLatencySamples = 100

// GenerationStats is a point-in-time view of a guarded backend.
type GenerationStats struct {
	Backend      string  `json:"backend"`
	Requests     int64   `json:"requests"`
	Failures     int64   `json:"failures"`
	Rejected     int64   `json:"rejected"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	Circuit      string  `json:"circuit"`
}

// StatsReporter is implemented by generators that keep request metrics.
type StatsReporter interface {
	Stats() GenerationStats
}

// MetricsCollector collects metrics for generation calls
type MetricsCollector struct {
	mu        sync.RWMutex
	requests  int64
	failures  int64
	rejected  int64
	latencies []time.Duration
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordRequest records a call that reached the backend
func (mc *MetricsCollector) RecordRequest(success bool, latency time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.requests++
	if !success {
		mc.failures++
	}

	mc.latencies = append(mc.latencies, latency)

	// Keep only last 100 latencies
	if len(mc.latencies) > maxLatencySamples {
		mc.latencies = mc.latencies[1:]
	}
}

// RecordRejected records a call refused by the breaker or the rate limit.
func (mc *MetricsCollector) RecordRejected() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.rejected++
}

// Snapshot returns the counters and the average of the recent latencies.
func (mc *MetricsCollector) Snapshot() GenerationStats {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	stats := GenerationStats{
		Requests: mc.requests,
		Failures: mc.failures,
		Rejected: mc.rejected,
	}
	if len(mc.latencies) > 0 {
		var total time.Duration
		for _, l := range mc.latencies {
			total += l
		}
		stats.AvgLatencyMs = float64(total.Milliseconds()) / float64(len(mc.latencies))
	}
	return stats
}
