package shortcode

import (
	"sort"
	"sync"
	"time"
)

// Metrics records shortcode evaluations.
type Metrics interface {
	ObserveRenderDuration(name string, duration time.Duration)
	IncrementRenderError(name string)
}

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveRenderDuration(string, time.Duration) {}

func (noopMetrics) IncrementRenderError(string) {}

// Stats aggregates the observations for one shortcode.
type Stats struct {
	Name     string
	Renders  int
	Errors   int
	Duration time.Duration
}

// CountingMetrics keeps per-shortcode totals in memory for build summaries.
type CountingMetrics struct {
	mu    sync.Mutex
	stats map[string]*Stats
}

// NewCountingMetrics constructs an empty recorder.
func NewCountingMetrics() *CountingMetrics {
	return &CountingMetrics{stats: map[string]*Stats{}}
}

func (m *CountingMetrics) entry(name string) *Stats {
	stat, ok := m.stats[name]
	if !ok {
		stat = &Stats{Name: name}
		m.stats[name] = stat
	}
	return stat
}

// ObserveRenderDuration records a successful render.
func (m *CountingMetrics) ObserveRenderDuration(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stat := m.entry(name)
	stat.Renders++
	stat.Duration += duration
}

// IncrementRenderError records a failed render.
func (m *CountingMetrics) IncrementRenderError(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(name).Errors++
}

// Snapshot returns the totals sorted by shortcode name.
func (m *CountingMetrics) Snapshot() []Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Stats, 0, len(m.stats))
	for _, stat := range m.stats {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var (
	_ Metrics = noopMetrics{}
	_ Metrics = (*CountingMetrics)(nil)
)
