package ttlmap

import (
	"time"

	"ttlmap/internal/metrics"
)

// SetTTL makes key expire ttl from now, keeping its value.
//
// SetTTL works on raw storage: a key that is expired but not yet evicted is
// still found and gets a fresh expiration. Only a key that is not stored at
// all yields ErrNotFound.
func (m *TTLMap[K, V]) SetTTL(key K, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.expireAtLocked("set ttl", key, m.clock().Add(ttl))
}

// SetTTLFrom is SetTTL measured from now instead of the map's clock.
func (m *TTLMap[K, V]) SetTTLFrom(key K, ttl time.Duration, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.expireAtLocked("set ttl", key, now.Add(ttl))
}

// ExpireAt sets key's absolute expiration to t regardless of its current
// TTL. Passing the current time expires the key immediately.
func (m *TTLMap[K, V]) ExpireAt(key K, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.expireAtLocked("expire at", key, t)
}

// ExpireIn is ExpireAt(key, now+d).
func (m *TTLMap[K, V]) ExpireIn(key K, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.expireAtLocked("expire in", key, m.clock().Add(d))
}

// ExpireAllAt applies ExpireAt(key, t) to every stored key, expired or not,
// and returns how many keys it updated.
func (m *TTLMap[K, V]) ExpireAllAt(t time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.expireAllAtLocked(t)
}

// ExpireAllIn is ExpireAllAt(now+d).
func (m *TTLMap[K, V]) ExpireAllIn(d time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.expireAllAtLocked(m.clock().Add(d))
}

// Persist removes key's expiration so it never expires.
func (m *TTLMap[K, V]) Persist(key K) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return notFound("persist", key)
	}
	e.hasExpiry = false
	e.expiresAt = time.Time{}
	m.items[key] = e
	m.metrics.Inc(metrics.MapTTLUpdateTotal)
	return nil
}

// GetTTL returns the time left until key expires. ok is false when key never
// expires.
//
// Like SetTTL it reads raw storage and never evicts, so an expired key that
// has not been swept yet reports a negative remaining time.
func (m *TTLMap[K, V]) GetTTL(key K) (remaining time.Duration, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.items[key]
	if !found {
		return 0, false, notFound("get ttl", key)
	}
	if !e.hasExpiry {
		return 0, false, nil
	}
	return e.expiresAt.Sub(m.clock()), true, nil
}

// IsExpired reports whether key is expired now. It never evicts.
func (m *TTLMap[K, V]) IsExpired(key K) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.isExpiredLocked(key, m.clock())
}

// IsExpiredAt reports whether key is expired at now. An entry whose
// expiration equals now is not expired. It never evicts.
func (m *TTLMap[K, V]) IsExpiredAt(key K, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.isExpiredLocked(key, now)
}

// EvictIfExpired reports whether key is expired now and, if so, deletes it
// before returning true.
func (m *TTLMap[K, V]) EvictIfExpired(key K) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.evictOrFailLocked(key, m.clock())
}

// EvictIfExpiredAt is EvictIfExpired evaluated at now.
func (m *TTLMap[K, V]) EvictIfExpiredAt(key K, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.evictOrFailLocked(key, now)
}

func (m *TTLMap[K, V]) evictOrFailLocked(key K, now time.Time) (bool, error) {
	expired, err := m.evictIfExpiredLocked(key, now)
	if err != nil {
		return false, notFound("evict", key)
	}
	return expired, nil
}

func (m *TTLMap[K, V]) isExpiredLocked(key K, now time.Time) (bool, error) {
	e, ok := m.items[key]
	if !ok {
		return false, notFound("is expired", key)
	}
	return e.expiredAt(now), nil
}

func (m *TTLMap[K, V]) expireAtLocked(op string, key K, t time.Time) error {
	e, ok := m.items[key]
	if !ok {
		return notFound(op, key)
	}
	e.hasExpiry = true
	e.expiresAt = t
	m.items[key] = e
	m.metrics.Inc(metrics.MapTTLUpdateTotal)
	return nil
}

func (m *TTLMap[K, V]) expireAllAtLocked(t time.Time) int {
	for key, e := range m.items {
		e.hasExpiry = true
		e.expiresAt = t
		m.items[key] = e
	}
	m.metrics.Add(metrics.MapTTLUpdateTotal, int64(len(m.items)))
	return len(m.items)
}
