package ttlmap

import (
	"iter"
	"maps"
	"slices"
)

// Keys returns a one-shot sequence of live keys.
//
// Keys may evict: each stored key is checked when the sequence reaches it,
// and expired keys are deleted instead of yielded. A full pass therefore
// leaves only live entries behind.
//
// The key set is captured when iteration starts, but each step re-reads the
// key under the lock, so keys deleted by another goroutine (or by the loop
// body) are skipped. Keys inserted during iteration are not yielded. The lock
// is not held while the loop body runs, so the body may use the map freely.
func (m *TTLMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range m.all() {
			if !yield(key) {
				return
			}
		}
	}
}

// All is Keys yielding each live key with its value.
func (m *TTLMap[K, V]) All() iter.Seq2[K, V] {
	return m.all()
}

func (m *TTLMap[K, V]) all() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range m.snapshotKeys() {
			value, live := m.step(key)
			if !live {
				continue
			}
			if !yield(key, value) {
				return
			}
		}
	}
}

func (m *TTLMap[K, V]) snapshotKeys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Collect(maps.Keys(m.items))
}

// step checks one key for a traversal. It evicts the key when expired and
// reports whether it is still live.
func (m *TTLMap[K, V]) step(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	expired, err := m.evictIfExpiredLocked(key, m.clock())
	if err != nil || expired {
		return zero, false
	}
	return m.items[key].value, true
}
