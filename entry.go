package ttlmap

import "time"

// entry is a stored value plus its expiration.
//
// hasExpiry=false means "never expires"; expiresAt is then meaningless.
type entry[V any] struct {
	value     V
	expiresAt time.Time
	hasExpiry bool
}

// expiredAt reports whether the entry is expired at now.
// The boundary is exclusive: an entry expiring exactly at now is still live.
func (e entry[V]) expiredAt(now time.Time) bool {
	if !e.hasExpiry {
		return false
	}
	return now.After(e.expiresAt)
}
