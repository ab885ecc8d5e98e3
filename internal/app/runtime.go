package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"horse.fit/quill/internal/cache"
	"horse.fit/quill/internal/cli"
	"horse.fit/quill/internal/config"
	"horse.fit/quill/internal/db"
	"horse.fit/quill/internal/logging"
	"horse.fit/quill/internal/translation"
)

// ristrettoMaxCost bounds the in-process cache at roughly 256 MiB of values.
const ristrettoMaxCost = 256 << 20

// runtime holds what every command builds from the environment.
type runtime struct {
	cfg      *config.Config
	logger   zerolog.Logger
	cache    cache.Cache
	pool     *db.Pool
	registry *prometheus.Registry
	closers  []func()
}

func openRuntime(ctx context.Context, envLoader *cli.EnvLoader) (*runtime, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger}
	switch cfg.NormalizedCacheBackend() {
	case config.CacheBackendPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.pool = pool
		rt.cache = cache.NewPostgres(pool)
		rt.closers = append(rt.closers, func() { _ = pool.Close() })
	default:
		memory, err := cache.NewRistretto(ristrettoMaxCost)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-process cache: %w", err)
		}
		rt.cache = memory
		rt.closers = append(rt.closers, memory.Close)
	}

	if strings.TrimSpace(cfg.MetricsTextfile) != "" {
		rt.registry = prometheus.NewRegistry()
	}

	logger.Debug().
		Str("cache_backend", cfg.NormalizedCacheBackend()).
		Str("provider", cfg.TranslationProvider).
		Msg("runtime initialized")
	return rt, nil
}

// newClient resolves the configured provider and loads its language catalog.
func (rt *runtime) newClient(ctx context.Context) (*translation.Client, error) {
	providers, err := translation.NewRegistryFromConfig(rt.cfg)
	if err != nil {
		return nil, err
	}
	provider, err := providers.Provider("")
	if err != nil {
		return nil, err
	}

	var metrics *translation.Metrics
	if rt.registry != nil {
		metrics, err = translation.NewMetrics(rt.registry)
		if err != nil {
			return nil, err
		}
	}

	return translation.NewClient(ctx, translation.ClientOptions{
		APIKey:            rt.cfg.TranslationAPIKey,
		Provider:          provider,
		Cache:             rt.cache,
		SourceLanguages:   rt.cfg.SourceLanguagesList(),
		CacheTTL:          rt.cfg.TranslationCacheTTL,
		RequestsPerMinute: rt.cfg.TranslationRequestsPerMinute,
		CatalogRetries:    rt.cfg.TranslationCatalogRetries,
		CatalogBackoff:    translation.DefaultCatalogBackoff,
		Metrics:           metrics,
		Logger:            &rt.logger,
	})
}

func (rt *runtime) newManager(ctx context.Context, persister translation.Persister) (*translation.Manager, *translation.Client, error) {
	client, err := rt.newClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	manager, err := translation.NewManager(translation.ManagerOptions{
		Translator: client,
		Persister:  persister,
		Status:     rt.cache,
		Logger:     &rt.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return manager, client, nil
}

// Close flushes metrics and releases the cache backend.
func (rt *runtime) Close() {
	if rt == nil {
		return
	}
	if rt.registry != nil {
		if err := prometheus.WriteToTextfile(rt.cfg.MetricsTextfile, rt.registry); err != nil {
			rt.logger.Warn().Err(err).Str("path", rt.cfg.MetricsTextfile).Msg("write metrics textfile")
		}
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
