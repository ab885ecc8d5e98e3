package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"horse.fit/quill/internal/cache"
	"horse.fit/quill/internal/langdetect"
	"horse.fit/quill/internal/language"
)

const (
	DefaultCacheTTL       = 24 * time.Hour
	DefaultCatalogRetries = 3
	DefaultCatalogBackoff = time.Second

	cacheKeyPrefix = "translation_"
)

// CatalogState describes how the client's catalog was obtained.
type CatalogState string

const (
	CatalogReady       CatalogState = "ready"
	CatalogEmpty       CatalogState = "empty"
	CatalogUnavailable CatalogState = "unavailable"
)

// CatalogStatus reports catalog health. Err is set when the provider could
// not be reached and the client degraded to an empty catalog.
type CatalogStatus struct {
	State     CatalogState
	Sources   int
	Err       error
	FetchedAt time.Time
}

// ClientOptions configures NewClient. Provider, Cache and APIKey are required.
type ClientOptions struct {
	APIKey   string
	Provider Provider
	Cache    cache.Cache

	// SourceLanguages restricts the catalog to these source codes.
	SourceLanguages []string

	CacheTTL          time.Duration
	RequestsPerMinute int
	CatalogRetries    int
	CatalogBackoff    time.Duration

	// DetectSource guesses a catalog code when the provider does not report
	// the detected source language. Defaults to langdetect.Detect.
	DetectSource func(text string) string

	Metrics *Metrics
	Logger  *zerolog.Logger
}

// Options tunes a single Translate call. The zero value reads and writes the
// cache and asks the provider to preserve formatting.
type Options struct {
	SourceLang       string
	NoCache          bool
	IgnoreFormatting bool
}

// Result is a translated text. It is also the cached value.
type Result struct {
	Text               string `json:"translated_text"`
	DetectedSourceLang string `json:"detected_source_lang"`
	Cached             bool   `json:"-"`
}

// BatchResult is one BatchTranslate item. Exactly one of Result and Err is set.
type BatchResult struct {
	Result *Result
	Err    error
}

// Client resolves translations against the shared cache before calling the
// provider. It is safe for concurrent use.
type Client struct {
	provider      Provider
	cache         cache.Cache
	catalog       Catalog
	catalogStatus CatalogStatus
	ttl           time.Duration
	limiter       *rate.Limiter
	detectSource  func(string) string
	metrics       *Metrics
	logger        zerolog.Logger
}

// NewClient validates the options and loads the provider's language catalog.
// A malformed pair is returned as an error. A provider that cannot be reached
// after CatalogRetries attempts leaves the client with an empty catalog whose
// status is CatalogUnavailable; every Translate then fails with
// ErrCatalogUnavailable.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrConfiguration)
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrConfiguration)
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("%w: cache is required", ErrConfiguration)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("component", "translation_client").Str("provider", opts.Provider.Name()).Logger()

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	retries := opts.CatalogRetries
	if retries <= 0 {
		retries = DefaultCatalogRetries
	}
	backoff := opts.CatalogBackoff
	if backoff < 0 {
		backoff = DefaultCatalogBackoff
	}
	detect := opts.DetectSource
	if detect == nil {
		detect = langdetect.Detect
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	c := &Client{
		provider:     opts.Provider,
		cache:        opts.Cache,
		ttl:          ttl,
		limiter:      limiter,
		detectSource: detect,
		metrics:      opts.Metrics,
		logger:       logger,
	}

	pairs, fetchErr := c.fetchPairs(ctx, retries, backoff)
	if fetchErr != nil {
		logger.Warn().Err(fetchErr).Int("attempts", retries).Msg("language catalog unavailable; all translations will fail")
		c.catalogStatus = CatalogStatus{State: CatalogUnavailable, Err: fetchErr, FetchedAt: time.Now().UTC()}
		return c, nil
	}

	catalog, err := ParsePairs(pairs)
	if err != nil {
		return nil, fmt.Errorf("build language catalog: %w", err)
	}
	c.catalog = catalog.Filter(opts.SourceLanguages)

	state := CatalogReady
	if c.catalog.IsEmpty() {
		state = CatalogEmpty
	}
	c.catalogStatus = CatalogStatus{State: state, Sources: len(c.catalog.pairs), FetchedAt: time.Now().UTC()}
	logger.Debug().Int("sources", len(c.catalog.pairs)).Str("state", string(state)).Msg("language catalog loaded")
	return c, nil
}

func (c *Client) fetchPairs(ctx context.Context, attempts int, backoff time.Duration) ([]string, error) {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pairs, err := c.provider.TargetLanguages(ctx)
		if err == nil {
			return pairs, nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}

		c.logger.Debug().Err(err).Int("attempt", attempt).Msg("retrying language catalog fetch")
		if backoff == 0 {
			continue
		}
		timer := time.NewTimer(time.Duration(attempt) * backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("fetch supported languages: %w", ctx.Err())
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("fetch supported languages: %w", lastErr)
}

// Catalog returns the (filtered) language catalog.
func (c *Client) Catalog() Catalog {
	return c.catalog
}

// CatalogStatus reports how the catalog was loaded at construction.
func (c *Client) CatalogStatus() CatalogStatus {
	return c.catalogStatus
}

// ProviderName is the name of the provider behind the client.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Translate translates text into targetLang. Every failure is returned as an
// error classified by KindOf; provider failures never panic past the client.
func (c *Client) Translate(ctx context.Context, text, targetLang string, opts Options) (*Result, error) {
	providerName := c.provider.Name()

	result, err := c.translate(ctx, text, targetLang, opts)
	if err != nil {
		c.metrics.observe(providerName, string(KindOf(err)))
		return nil, err
	}
	if result.Cached {
		c.metrics.observe(providerName, "cache_hit")
	} else {
		c.metrics.observe(providerName, "translated")
	}
	return result, nil
}

func (c *Client) translate(ctx context.Context, text, targetLang string, opts Options) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if c.catalogStatus.State == CatalogUnavailable {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, c.catalogStatus.Err)
	}

	target := language.CatalogCode(targetLang)
	if !c.catalog.HasTarget(target) {
		return nil, fmt.Errorf("%w: target language %q", ErrUnsupportedLanguage, targetLang)
	}
	source := ""
	if strings.TrimSpace(opts.SourceLang) != "" {
		source = language.CatalogCode(opts.SourceLang)
		if !c.catalog.HasSource(source) {
			return nil, fmt.Errorf("%w: source language %q", ErrUnsupportedLanguage, opts.SourceLang)
		}
	}

	key := CacheKey(text, source, target)
	if !opts.NoCache {
		if cached, ok := c.lookup(ctx, key); ok {
			return cached, nil
		}
	}

	resp, err := c.callProvider(ctx, TextRequest{
		Text:               text,
		SourceLang:         source,
		TargetLang:         target,
		PreserveFormatting: !opts.IgnoreFormatting,
	})
	if err != nil {
		return nil, err
	}

	detected := language.CatalogCode(resp.DetectedSourceLang)
	if detected == "" {
		detected = source
	}
	if detected == "" {
		detected = c.detectSource(text)
	}

	result := &Result{Text: resp.Text, DetectedSourceLang: detected}
	if !opts.NoCache {
		c.store(ctx, key, result)
	}
	return result, nil
}

func (c *Client) callProvider(ctx context.Context, req TextRequest) (*TextResponse, error) {
	providerName := c.provider.Name()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &ProviderError{Provider: providerName, Err: fmt.Errorf("wait for rate limiter: %w", err)}
		}
	}

	started := time.Now()
	resp, err := c.provider.TranslateText(ctx, req)
	c.metrics.observeLatency(providerName, time.Since(started))
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return nil, fmt.Errorf("%s: %w", providerName, err)
		}
		return nil, &ProviderError{Provider: providerName, Err: err}
	}
	if resp == nil {
		return nil, &ProviderError{Provider: providerName, Err: errors.New("empty provider response")}
	}
	return resp, nil
}

func (c *Client) lookup(ctx context.Context, key string) (*Result, bool) {
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("translation cache read failed; treating as miss")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var cached Result
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("ignoring undecodable translation cache entry")
		return nil, false
	}
	cached.Cached = true
	c.logger.Debug().Str("cache_key", key).Msg("translation cache hit")
	return &cached, true
}

func (c *Client) store(ctx context.Context, key string, result *Result) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("encode translation cache entry")
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("translation cache write failed")
	}
}

// BatchTranslate translates every text independently and returns one result
// per input, in input order. A failed item does not stop the others.
func (c *Client) BatchTranslate(ctx context.Context, texts []string, targetLang string, opts Options) []BatchResult {
	results := make([]BatchResult, len(texts))
	for i, text := range texts {
		result, err := c.Translate(ctx, text, targetLang, opts)
		results[i] = BatchResult{Result: result, Err: err}
	}
	return results
}

// CacheKey is the shared cache key for a text/source/target triple. An
// auto-detected source is keyed with an empty source code.
func CacheKey(text, sourceLang, targetLang string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:]) + "_" + sourceLang + "_" + targetLang
}
