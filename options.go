package ttlmap

import (
	"time"

	"ttlmap/internal/logs"
	"ttlmap/internal/metrics"
)

// Clock returns the current time.
type Clock func() time.Time

type options struct {
	defaultTTL    time.Duration
	hasDefaultTTL bool
	clock         Clock
	metrics       *metrics.Registry
	logger        *logs.Logger
}

// Option configures a TTLMap at construction.
type Option func(*options)

// WithDefaultTTL makes every inserted entry expire ttl after insertion.
// Negative values are allowed and yield entries that are already expired.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = ttl
		o.hasDefaultTTL = true
	}
}

// WithClock replaces time.Now as the map's time source.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMetrics reports map activity to reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(o *options) { o.metrics = reg }
}

// WithLogger logs evictions and sweeps to logger at debug level.
func WithLogger(logger *logs.Logger) Option {
	return func(o *options) { o.logger = logger }
}
