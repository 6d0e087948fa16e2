package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates chat pipeline counters in memory.
type Metrics struct {
	mu sync.Mutex

	chatTotal  atomic.Int64
	chatFailed atomic.Int64

	durations    []time.Duration
	maxDurations int
}

// MetricsSnapshot is a point-in-time view of the collected counters.
type MetricsSnapshot struct {
	ChatTotal    int64         `json:"chat_total"`
	ChatFailed   int64         `json:"chat_failed"`
	AvgDuration  time.Duration `json:"avg_duration"`
	MaxDuration  time.Duration `json:"max_duration"`
	SampleWindow int           `json:"sample_window"`
}

// NewMetrics creates a metrics collector keeping the last maxDurations samples.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

// RecordChat records one handled chat request.
func (m *Metrics) RecordChat(duration time.Duration, failed bool) {
	m.chatTotal.Add(1)
	if failed {
		m.chatFailed.Add(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		ChatTotal:    m.chatTotal.Load(),
		ChatFailed:   m.chatFailed.Load(),
		SampleWindow: len(m.durations),
	}
	var total time.Duration
	for _, d := range m.durations {
		total += d
		if d > snap.MaxDuration {
			snap.MaxDuration = d
		}
	}
	if len(m.durations) > 0 {
		snap.AvgDuration = total / time.Duration(len(m.durations))
	}
	return snap
}
