package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// GetCacheEntry returns the value stored under key when it has not expired at now.
// Missing and expired rows both return ErrNoRows.
func (p *Pool) GetCacheEntry(ctx context.Context, key string, now time.Time) ([]byte, error) {
	const q = `
SELECT c.value
FROM quill.cache_entries c
WHERE c.cache_key = $1
  AND (c.expires_at IS NULL OR c.expires_at > $2)
LIMIT 1
`

	var value []byte
	if err := p.QueryRow(ctx, q, strings.TrimSpace(key), now.UTC()).Scan(&value); err != nil {
		if IsNoRows(err) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("query cache entry: %w", err)
	}
	return value, nil
}

// UpsertCacheEntry writes value under key. A nil expiresAt stores the entry without expiry.
func (p *Pool) UpsertCacheEntry(ctx context.Context, key string, value []byte, expiresAt *time.Time) error {
	const q = `
INSERT INTO quill.cache_entries (
	cache_key,
	value,
	expires_at
)
VALUES ($1, $2, $3)
ON CONFLICT (cache_key)
DO UPDATE SET
	value = EXCLUDED.value,
	expires_at = EXCLUDED.expires_at,
	updated_at = now()
`

	var expires any
	if expiresAt != nil {
		expires = expiresAt.UTC()
	}
	if _, err := p.Exec(ctx, q, strings.TrimSpace(key), value, expires); err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// DeleteExpiredCacheEntries removes rows that expired before now.
func (p *Pool) DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error) {
	const q = `
DELETE FROM quill.cache_entries
WHERE expires_at IS NOT NULL
  AND expires_at <= $1
`

	tag, err := p.Exec(ctx, q, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
