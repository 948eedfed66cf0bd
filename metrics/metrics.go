package metrics

import (
	"sort"
	"sync"
	"time"
)

// MetricType represents different types of metrics
type MetricType int

const (
	Counter MetricType = iota
	Gauge
)

// Metric describes a registered metric
type Metric struct {
	Name        string
	Type        MetricType
	Description string
}

// MetricValue is the current value of a metric
type MetricValue struct {
	Name      string
	Type      MetricType
	Value     float64
	Timestamp time.Time
}

// Registry stores and manages metrics
type Registry struct {
	metrics map[string]Metric
	values  map[string]MetricValue
	mu      sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]Metric),
		values:  make(map[string]MetricValue),
	}
}

func (r *Registry) Register(metric Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics[metric.Name] = metric
}

// Add increments a counter. Unregistered names and gauges are ignored.
func (r *Registry) Add(name string, delta float64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if metric, ok := r.metrics[name]; ok && metric.Type == Counter {
		v := r.values[name]
		r.values[name] = MetricValue{
			Name:      name,
			Type:      Counter,
			Value:     v.Value + delta,
			Timestamp: time.Now(),
		}
	}
}

// Set records the current value of a gauge.
func (r *Registry) Set(name string, value float64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if metric, ok := r.metrics[name]; ok && metric.Type == Gauge {
		r.values[name] = MetricValue{
			Name:      name,
			Type:      Gauge,
			Value:     value,
			Timestamp: time.Now(),
		}
	}
}

// Value returns the current value of name.
func (r *Registry) Value(name string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[name].Value
}

// Snapshot returns all recorded values ordered by name.
func (r *Registry) Snapshot() []MetricValue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]MetricValue, 0, len(r.values))
	for _, v := range r.values {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
