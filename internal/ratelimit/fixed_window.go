// Package ratelimit throttles comment submissions per author or remote address.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"horse.fit/quill/internal/cache"
)

const (
	DefaultLimit  = 10
	DefaultWindow = time.Hour

	keyPrefix = "comment_rate_limit:"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type windowState struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
}

// FixedWindow allows Limit events per subject within a window that starts at
// the subject's first event. Counters live in the shared cache and expire with
// the window, so a denied request does not extend it.
type FixedWindow struct {
	cache  cache.Cache
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewFixedWindow(c cache.Cache, limit int, window time.Duration) (*FixedWindow, error) {
	if c == nil {
		return nil, fmt.Errorf("rate limiter cache is required")
	}
	if limit < 1 {
		return nil, fmt.Errorf("rate limit must be >= 1, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("rate limit window must be > 0, got %s", window)
	}
	return &FixedWindow{
		cache:  c,
		limit:  limit,
		window: window,
		now:    time.Now,
	}, nil
}

// Allow records one event for subject and reports whether it is within the
// limit. Counter reads and writes are not atomic; two concurrent callers may
// both be allowed at the boundary.
func (l *FixedWindow) Allow(ctx context.Context, subject string) (Decision, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Decision{}, fmt.Errorf("rate limit subject is required")
	}

	now := l.now().UTC()
	key := keyPrefix + subject

	state, err := l.load(ctx, key, now)
	if err != nil {
		return Decision{}, err
	}
	resetAt := state.WindowStart.Add(l.window)

	if state.Count >= l.limit {
		return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	state.Count++
	raw, err := json.Marshal(state)
	if err != nil {
		return Decision{}, fmt.Errorf("encode rate limit state: %w", err)
	}
	if err := l.cache.Set(ctx, key, raw, resetAt.Sub(now)); err != nil {
		return Decision{}, fmt.Errorf("store rate limit state: %w", err)
	}

	return Decision{Allowed: true, Remaining: l.limit - state.Count, ResetAt: resetAt}, nil
}

func (l *FixedWindow) load(ctx context.Context, key string, now time.Time) (windowState, error) {
	fresh := windowState{WindowStart: now}

	raw, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		return windowState{}, fmt.Errorf("read rate limit state: %w", err)
	}
	if !ok {
		return fresh, nil
	}

	var state windowState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fresh, nil
	}
	if !now.Before(state.WindowStart.Add(l.window)) {
		return fresh, nil
	}
	return state, nil
}
