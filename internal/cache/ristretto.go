package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	DefaultRistrettoMaxCost = 1 << 28 // 256 MiB of cached values
	defaultNumCounters      = 1e7
	defaultBufferItems      = 64
)

// Ristretto is the in-process cache shared by every client in the process.
type Ristretto struct {
	cache *ristretto.Cache
}

// NewRistretto builds a ristretto-backed cache. maxCost bounds the summed
// byte length of stored values; <= 0 uses DefaultRistrettoMaxCost.
func NewRistretto(maxCost int64) (*Ristretto, error) {
	if maxCost <= 0 {
		maxCost = DefaultRistrettoMaxCost
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: defaultNumCounters,
		MaxCost:     maxCost,
		BufferItems: defaultBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &Ristretto{cache: c}, nil
}

func (r *Ristretto) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, ok := r.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	value, ok := raw.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("ristretto entry %q has type %T", key, raw)
	}
	return cloneBytes(value), true, nil
}

// Set waits for ristretto's write buffer to drain so a following Get from the
// same process observes the value.
func (r *Ristretto) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	if !r.cache.SetWithTTL(key, cloneBytes(value), cost, ttl) {
		return ErrNotStored
	}
	r.cache.Wait()
	return nil
}

func (r *Ristretto) Close() {
	if r == nil || r.cache == nil {
		return
	}
	r.cache.Close()
}
