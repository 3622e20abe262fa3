package ttlmap

import (
	"context"
	"sync"

	"ttlmap/internal/metrics"
)

// LoadFunc fetches the value for a key that is missing from the map.
type LoadFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Loader puts a TTLMap in front of a slower source (cache-aside).
//
// Concurrent misses for the same key share one call to the load function.
// Flights are keyed on K itself, so distinct keys never share a load.
// Loaded values are stored with Set, so the map's default TTL decides how
// long they live.
type Loader[K comparable, V any] struct {
	m    *TTLMap[K, V]
	load LoadFunc[K, V]

	mu    sync.Mutex
	calls map[K]*call[V]
}

// call is one in-flight load. val and err are written before done is closed.
type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// NewLoader returns a Loader reading through m.
func NewLoader[K comparable, V any](m *TTLMap[K, V], load LoadFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		m:     m,
		load:  load,
		calls: make(map[K]*call[V]),
	}
}

// Get returns the live value for key, loading and storing it on a miss.
// Errors from the load function are returned unchanged.
//
// The load runs detached from the cancellation of the caller that started
// it, keeping that caller's context values. Each caller stops waiting when
// its own ctx is done and gets ctx.Err(); the load itself carries on for
// the callers still waiting.
func (l *Loader[K, V]) Get(ctx context.Context, key K) (V, error) {
	if value, err := l.m.Get(key); err == nil {
		return value, nil
	}

	l.mu.Lock()
	c, joined := l.calls[key]
	if !joined {
		c = &call[V]{done: make(chan struct{})}
		l.calls[key] = c
	}
	l.mu.Unlock()

	if joined {
		l.m.metrics.Inc(metrics.LoaderSharedTotal)
	} else {
		go l.run(context.WithoutCancel(ctx), key, c)
	}

	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func (l *Loader[K, V]) run(ctx context.Context, key K, c *call[V]) {
	defer func() {
		l.mu.Lock()
		if l.calls[key] == c {
			delete(l.calls, key)
		}
		l.mu.Unlock()
		close(c.done)
	}()

	// Another flight may have filled the key before this one started.
	if value, err := l.m.Get(key); err == nil {
		c.val = value
		return
	}

	l.m.metrics.Inc(metrics.LoaderCallsTotal)
	c.val, c.err = l.load(ctx, key)
	if c.err != nil {
		l.m.metrics.Inc(metrics.LoaderErrorsTotal)
		return
	}
	l.m.Set(key, c.val)
}

// Forget drops any in-flight load for key so the next Get starts a new one.
// Callers already waiting on the dropped load still receive its result.
func (l *Loader[K, V]) Forget(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.calls, key)
}
