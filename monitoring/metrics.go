package monitoring

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Renders   map[string]int64 `json:"renders"`
	Requests  int64            `json:"requests"`
	StartTime time.Time        `json:"start_time"`
	Uptime    string           `json:"uptime"`
}

// Metrics counts requests and render outcomes since process start.
type Metrics struct {
	mu        sync.RWMutex
	renders   map[string]int64
	requests  int64
	startTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		renders:   make(map[string]int64),
		startTime: time.Now(),
	}
}

// RecordRequest counts one handled HTTP request.
func (m *Metrics) RecordRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
}

// RecordRender counts one render cycle by its final status.
func (m *Metrics) RecordRender(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders[status]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	renders := make(map[string]int64, len(m.renders))
	for k, v := range m.renders {
		renders[k] = v
	}
	return Snapshot{
		Renders:   renders,
		Requests:  m.requests,
		StartTime: m.startTime,
		Uptime:    time.Since(m.startTime).Round(time.Second).String(),
	}
}
