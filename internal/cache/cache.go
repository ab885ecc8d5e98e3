// Package cache holds the shared key/value store behind translation results
// and the comment rate limiter.
//
// Entries are opaque byte slices with a time-to-live. Writers for the same key
// are expected to store the same value, so backends only need per-key atomic
// get/set and callers never lock.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotStored reports that a backend accepted the call but dropped the value.
var ErrNotStored = errors.New("cache value was not stored")

// Cache is the injected cache capability. A ttl <= 0 stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func cloneBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
