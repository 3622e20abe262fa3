package ttlmap

import (
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"

	"ttlmap/internal/logs"
	"ttlmap/internal/metrics"
)

// Container is the plain map capability set.
type Container[K comparable, V any] interface {
	Get(key K) (V, error)
	Set(key K, value V)
	Delete(key K) error
	Len() int
	Keys() iter.Seq[K]
}

var _ Container[string, int] = (*TTLMap[string, int])(nil)

// Pair is one key/value used to seed a map.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// TTLMap is a concurrency-safe key-value map with per-entry expiration.
//
// Design choices:
//   - One mutex guards items and the default TTL. Exported methods lock
//     exactly once; *Locked helpers assume the lock is held.
//   - Expiration is an absolute time. Expired entries are purged lazily,
//     on access to the key or on a full traversal (Len, Keys, All).
//   - Each locked section samples the clock once and uses that instant for
//     all of its comparisons. Keys and All lock once per key, so each step
//     of a traversal takes its own sample.
type TTLMap[K comparable, V any] struct {
	mu sync.Mutex

	id            uuid.UUID
	items         map[K]entry[V]
	defaultTTL    time.Duration
	hasDefaultTTL bool

	clock   Clock
	metrics *metrics.Registry
	logger  *logs.Logger
}

// New returns an empty map.
func New[K comparable, V any](opts ...Option) *TTLMap[K, V] {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &TTLMap[K, V]{
		id:            uuid.New(),
		items:         make(map[K]entry[V]),
		defaultTTL:    o.defaultTTL,
		hasDefaultTTL: o.hasDefaultTTL,
		clock:         o.clock,
		metrics:       o.metrics,
		logger:        o.logger,
	}
}

// NewFrom returns a map seeded with pairs, inserted in order through Set so
// the default TTL applies to each of them.
func NewFrom[K comparable, V any](pairs []Pair[K, V], opts ...Option) *TTLMap[K, V] {
	m := New[K, V](opts...)
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// NewFromMap is NewFrom for a Go map. Insertion order is unspecified.
func NewFromMap[K comparable, V any](src map[K]V, opts ...Option) *TTLMap[K, V] {
	m := New[K, V](opts...)
	for k, v := range src {
		m.Set(k, v)
	}
	return m
}

// SetDefaultTTL changes the TTL applied to future insertions.
// Existing entries keep their expiration.
func (m *TTLMap[K, V]) SetDefaultTTL(ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultTTL = ttl
	m.hasDefaultTTL = true
}

// ClearDefaultTTL makes future insertions never expire.
func (m *TTLMap[K, V]) ClearDefaultTTL() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultTTL = 0
	m.hasDefaultTTL = false
}

// DefaultTTL returns the default TTL and whether one is configured.
func (m *TTLMap[K, V]) DefaultTTL() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.defaultTTL, m.hasDefaultTTL
}

// Set inserts or overwrites key.
//
// The entry expires defaultTTL from now when a default TTL is configured,
// otherwise never.
func (m *TTLMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry[V]{value: value}
	if m.hasDefaultTTL {
		e.hasExpiry = true
		e.expiresAt = m.clock().Add(m.defaultTTL)
	}
	m.setLocked(key, e)
}

// SetWithTTL inserts or overwrites key with an expiration ttl from now,
// ignoring the default TTL. No reader can observe the value without its
// expiration. A negative ttl stores an entry that is already expired.
func (m *TTLMap[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setLocked(key, entry[V]{
		value:     value,
		expiresAt: m.clock().Add(ttl),
		hasExpiry: true,
	})
	m.metrics.Inc(metrics.MapTTLUpdateTotal)
}

func (m *TTLMap[K, V]) setLocked(key K, e entry[V]) {
	if _, exists := m.items[key]; !exists {
		m.metrics.Inc(metrics.MapKeys)
	}
	m.metrics.Inc(metrics.MapSetsTotal)

	m.items[key] = e
}

// Get returns the value stored under key.
//
// Get may evict: an expired key is deleted and reported as ErrNotFound,
// exactly as if it had never been set.
func (m *TTLMap[K, V]) Get(key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.Inc(metrics.MapGetsTotal)

	var zero V
	if _, err := m.evictIfExpiredLocked(key, m.clock()); err != nil {
		m.metrics.Inc(metrics.MapMissesTotal)
		return zero, notFound("get", key)
	}

	e, ok := m.items[key]
	if !ok {
		m.metrics.Inc(metrics.MapMissesTotal)
		return zero, notFound("get", key)
	}
	return e.value, nil
}

// Delete removes key regardless of its expiration.
// It returns ErrNotFound if key is not stored.
func (m *TTLMap[K, V]) Delete(key K) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; !ok {
		return notFound("delete", key)
	}
	m.deleteLocked(key)
	m.metrics.Inc(metrics.MapDeletesTotal)
	return nil
}

// Clear removes every entry.
func (m *TTLMap[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.Add(metrics.MapKeys, -int64(len(m.items)))
	m.metrics.Add(metrics.MapDeletesTotal, int64(len(m.items)))
	clear(m.items)
}

// Len sweeps the map, evicting every expired entry, and returns the number
// of live entries left.
func (m *TTLMap[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := m.sweepLocked(m.clock())
	if removed > 0 {
		m.logger.Debug("ttlmap swept expired keys", "removed", removed, "remaining", len(m.items))
	}
	return len(m.items)
}

func (m *TTLMap[K, V]) deleteLocked(key K) {
	delete(m.items, key)
	m.metrics.Dec(metrics.MapKeys)
}

// evictIfExpiredLocked is the core expiry check. It fails with ErrNotFound if
// key is not stored, and deletes the entry when it is expired at now.
func (m *TTLMap[K, V]) evictIfExpiredLocked(key K, now time.Time) (bool, error) {
	e, ok := m.items[key]
	if !ok {
		return false, ErrNotFound
	}
	if !e.expiredAt(now) {
		return false, nil
	}

	m.deleteLocked(key)
	m.metrics.Inc(metrics.MapExpiredTotal)
	m.logger.Debug("ttlmap evicted expired key", "key", key)
	return true, nil
}

// sweepLocked evicts every entry expired at now and returns how many it
// removed.
func (m *TTLMap[K, V]) sweepLocked(now time.Time) int {
	m.metrics.Inc(metrics.MapSweepsTotal)

	removed := 0
	for key := range m.items {
		if expired, _ := m.evictIfExpiredLocked(key, now); expired {
			removed++
		}
	}
	return removed
}
