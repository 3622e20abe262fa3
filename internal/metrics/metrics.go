package metrics

import (
	"sync"
	"sync/atomic"
)

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys (centralized)
const (
	// Map
	MapKeys           MetricKey = "ttlmap_keys"
	MapSetsTotal      MetricKey = "ttlmap_sets_total"
	MapGetsTotal      MetricKey = "ttlmap_gets_total"
	MapMissesTotal    MetricKey = "ttlmap_misses_total"
	MapDeletesTotal   MetricKey = "ttlmap_deletes_total"
	MapExpiredTotal   MetricKey = "ttlmap_expired_total"
	MapSweepsTotal    MetricKey = "ttlmap_sweeps_total"
	MapTTLUpdateTotal MetricKey = "ttlmap_ttl_updates_total"

	// Loader
	LoaderCallsTotal  MetricKey = "loader_calls_total"
	LoaderErrorsTotal MetricKey = "loader_errors_total"
	LoaderSharedTotal MetricKey = "loader_shared_total"

	// HTTP
	HTTPRequestsTotal MetricKey = "http_requests_total"
	HTTPPanicsTotal   MetricKey = "http_panics_total"
)

// gauges go up and down; everything else is exported as a counter.
var gauges = map[MetricKey]bool{
	MapKeys: true,
}

// Registry stores all metrics.
//
// A nil *Registry is valid and discards every update, so components can
// take an optional registry without branching at each call site.
type Registry struct {
	mu       sync.RWMutex
	counters map[MetricKey]*int64
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[MetricKey]*int64),
	}
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Dec decrements a metric by 1.
func (r *Registry) Dec(key MetricKey) {
	r.Add(key, -1)
}

// Add increments a metric by delta.
func (r *Registry) Add(key MetricKey, delta int64) {
	if r == nil {
		return
	}

	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	// Slow path: metric not yet initialized
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if ptr, ok = r.counters[key]; ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	var val int64
	r.counters[key] = &val
	atomic.AddInt64(&val, delta)
}

// Value returns the current value of a single metric (0 if never touched).
func (r *Registry) Value(key MetricKey) int64 {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ptr, ok := r.counters[key]
	if !ok {
		return 0
	}
	return atomic.LoadInt64(ptr)
}
