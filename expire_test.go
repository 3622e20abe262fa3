package ttlmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExpiredAt_Boundary(t *testing.T) {
	clock := newFakeClock()
	m := New[string, int](WithClock(clock.Now))
	m.Set("k", 1)

	t0 := clock.Now()
	require.NoError(t, m.SetTTLFrom("k", 10*time.Second, t0))
	deadline := t0.Add(10 * time.Second)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before", deadline.Add(-time.Nanosecond), false},
		{"exactly at expiration", deadline, false},
		{"after", deadline.Add(time.Nanosecond), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.IsExpiredAt("k", tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 1, rawLen(m), "IsExpiredAt never evicts")
}

func TestIsExpired_NoExpiration(t *testing.T) {
	m := New[string, int]()
	m.Set("k", 1)

	expired, err := m.IsExpiredAt("k", time.Now().Add(1000*time.Hour))
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestEvictIfExpired(t *testing.T) {
	clock := newFakeClock()
	m := New[string, int](WithDefaultTTL(time.Second), WithClock(clock.Now))
	m.Set("k", 1)

	expired, err := m.EvictIfExpired("k")
	require.NoError(t, err)
	assert.False(t, expired)
	assert.Equal(t, 1, rawLen(m))

	clock.Advance(2 * time.Second)

	expired, err = m.IsExpired("k")
	require.NoError(t, err)
	assert.True(t, expired)
	assert.Equal(t, 1, rawLen(m))

	expired, err = m.EvictIfExpired("k")
	require.NoError(t, err)
	assert.True(t, expired)
	assert.Equal(t, 0, rawLen(m))

	_, err = m.EvictIfExpired("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvictIfExpiredAt_CallerSuppliedNow(t *testing.T) {
	m := New[string, int](WithDefaultTTL(time.Hour))
	m.Set("k", 1)

	expired, err := m.EvictIfExpiredAt("k", time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, expired)

	_, err = m.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeyedOperations_NotFound(t *testing.T) {
	m := New[string, int]()
	now := time.Now()

	ops := map[string]func() error{
		"Get":              func() error { _, err := m.Get("x"); return err },
		"Delete":           func() error { return m.Delete("x") },
		"SetTTL":           func() error { return m.SetTTL("x", time.Second) },
		"SetTTLFrom":       func() error { return m.SetTTLFrom("x", time.Second, now) },
		"GetTTL":           func() error { _, _, err := m.GetTTL("x"); return err },
		"IsExpired":        func() error { _, err := m.IsExpired("x"); return err },
		"IsExpiredAt":      func() error { _, err := m.IsExpiredAt("x", now); return err },
		"EvictIfExpired":   func() error { _, err := m.EvictIfExpired("x"); return err },
		"EvictIfExpiredAt": func() error { _, err := m.EvictIfExpiredAt("x", now); return err },
		"ExpireAt":         func() error { return m.ExpireAt("x", now) },
		"ExpireIn":         func() error { return m.ExpireIn("x", time.Second) },
		"Persist":          func() error { return m.Persist("x") },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), ErrNotFound)
		})
	}
}

func TestSetTTL_OperatesOnRawStorage(t *testing.T) {
	clock := newFakeClock()
	m := New[string, int](WithDefaultTTL(time.Second), WithClock(clock.Now))
	m.Set("k", 7)

	clock.Advance(5 * time.Second)

	expired, err := m.IsExpired("k")
	require.NoError(t, err)
	require.True(t, expired)

	// Expired but not yet evicted: SetTTL still finds it and revives it.
	require.NoError(t, m.SetTTL("k", time.Minute))

	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestSetTTL_GetTTL_RoundTrip(t *testing.T) {
	t.Run("wall clock", func(t *testing.T) {
		const ttl = 10 * time.Second
		const epsilon = time.Second

		m := New[string, int]()
		m.Set("k", 1)

		require.NoError(t, m.SetTTL("k", ttl))
		remaining, ok, err := m.GetTTL("k")
		require.NoError(t, err)
		require.True(t, ok)

		assert.LessOrEqual(t, remaining, ttl)
		assert.Greater(t, remaining, ttl-epsilon)
	})

	t.Run("fake clock", func(t *testing.T) {
		clock := newFakeClock()
		m := New[string, int](WithClock(clock.Now))
		m.Set("k", 1)

		require.NoError(t, m.SetTTL("k", 10*time.Second))
		clock.Advance(3 * time.Second)

		remaining, ok, err := m.GetTTL("k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 7*time.Second, remaining)

		clock.Advance(10 * time.Second)
		remaining, ok, err = m.GetTTL("k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, -3*time.Second, remaining, "GetTTL does not evict")
	})

	t.Run("no expiration", func(t *testing.T) {
		m := New[string, int]()
		m.Set("k", 1)

		remaining, ok, err := m.GetTTL("k")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, remaining)
	})
}

func TestExpireIn(t *testing.T) {
	clock := newFakeClock()
	m := New[string, int](WithClock(clock.Now))
	m.Set("k", 1)

	require.NoError(t, m.ExpireIn("k", time.Second))

	clock.Advance(time.Second)
	_, err := m.Get("k")
	assert.NoError(t, err, "expiration instant itself is still live")

	clock.Advance(time.Nanosecond)
	_, err = m.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpireAll(t *testing.T) {
	clock := newFakeClock()
	m := New[int, int](WithClock(clock.Now))
	for i := 0; i < 4; i++ {
		m.Set(i, i)
	}

	t.Run("ExpireAllIn", func(t *testing.T) {
		assert.Equal(t, 4, m.ExpireAllIn(time.Minute))
		for i := 0; i < 4; i++ {
			remaining, ok, err := m.GetTTL(i)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, time.Minute, remaining)
		}
	})

	t.Run("ExpireAllAt", func(t *testing.T) {
		assert.Equal(t, 4, m.ExpireAllAt(clock.Now().Add(-time.Second)))
		assert.Equal(t, 0, m.Len())
	})

	t.Run("empty map", func(t *testing.T) {
		assert.Equal(t, 0, m.ExpireAllIn(time.Second))
	})
}

func TestPersist(t *testing.T) {
	clock := newFakeClock()
	m := New[string, int](WithDefaultTTL(time.Second), WithClock(clock.Now))
	m.Set("k", 1)

	require.NoError(t, m.Persist("k"))
	clock.Advance(time.Hour)

	_, ok, err := m.GetTTL("k")
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
