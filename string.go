package ttlmap

import (
	"fmt"
	"strings"
	"time"
)

// String returns a debug representation of the map including raw entries
// that may already be expired. The format is not stable.
func (m *TTLMap[K, V]) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ttl := "none"
	if m.hasDefaultTTL {
		ttl = m.defaultTTL.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<TTLMap@%s; ttl=%s, v=map[", m.id, ttl)
	first := true
	for key, e := range m.items {
		if !first {
			b.WriteByte(' ')
		}
		first = false

		exp := "never"
		if e.hasExpiry {
			exp = e.expiresAt.Format(time.RFC3339Nano)
		}
		fmt.Fprintf(&b, "%v:(%s %v)", key, exp, e.value)
	}
	b.WriteString("];>")
	return b.String()
}

// ID identifies this map instance.
func (m *TTLMap[K, V]) ID() string {
	return m.id.String()
}
