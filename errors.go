package ttlmap

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by keyed operations when the key is absent.
// Keys evicted by the operation's own expiry check count as absent.
var ErrNotFound = errors.New("key not found")

// KeyError records the operation and key that failed.
type KeyError struct {
	Op  string
	Key any
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("ttlmap %s %v: %v", e.Op, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

func notFound(op string, key any) error {
	return &KeyError{Op: op, Key: key, Err: ErrNotFound}
}
