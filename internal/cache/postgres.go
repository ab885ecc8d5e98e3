package cache

import (
	"context"
	"time"

	"horse.fit/quill/internal/db"
)

type entryStore interface {
	GetCacheEntry(ctx context.Context, key string, now time.Time) ([]byte, error)
	UpsertCacheEntry(ctx context.Context, key string, value []byte, expiresAt *time.Time) error
}

// Postgres stores entries in quill.cache_entries so several processes share
// one cache.
type Postgres struct {
	store entryStore
	now   func() time.Time
}

func NewPostgres(pool *db.Pool) *Postgres {
	return newPostgresWithStore(pool, time.Now)
}

func newPostgresWithStore(store entryStore, now func() time.Time) *Postgres {
	if now == nil {
		now = time.Now
	}
	return &Postgres{store: store, now: now}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := p.store.GetCacheEntry(ctx, key, p.now())
	if err != nil {
		if db.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		at := p.now().Add(ttl)
		expiresAt = &at
	}
	return p.store.UpsertCacheEntry(ctx, key, value, expiresAt)
}
