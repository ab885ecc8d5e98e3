package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	CacheBackendMemory   = "memory"
	CacheBackendPostgres = "postgres"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	TranslationProvider          string        `envconfig:"TRANSLATION_PROVIDER" default:"deepl"`
	TranslationAPIKey            string        `envconfig:"TRANSLATION_API_KEY" default:""`
	TranslationEndpoint          string        `envconfig:"TRANSLATION_ENDPOINT" default:""`
	TranslationModel             string        `envconfig:"TRANSLATION_MODEL" default:""`
	TranslationSourceLanguages   string        `envconfig:"TRANSLATION_SOURCE_LANGUAGES" default:""`
	TranslationCacheTTL          time.Duration `envconfig:"TRANSLATION_CACHE_TTL" default:"24h"`
	TranslationRequestsPerMinute int           `envconfig:"TRANSLATION_REQUESTS_PER_MINUTE" default:"0"`
	TranslationCatalogRetries    int           `envconfig:"TRANSLATION_CATALOG_RETRIES" default:"3"`

	CacheBackend string `envconfig:"CACHE_BACKEND" default:"memory"`
	DatabaseURL  string `envconfig:"DATABASE_URL" default:""`
	DBMinConns   int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns   int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	CommentRateLimit  int           `envconfig:"COMMENT_RATE_LIMIT" default:"10"`
	CommentRateWindow time.Duration `envconfig:"COMMENT_RATE_WINDOW" default:"1h"`

	// MetricsTextfile, when set, receives the Prometheus text exposition after each command.
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field rules. The translation API key is not checked
// here; the translation client rejects a missing key when it is constructed.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.CacheBackend)) {
	case CacheBackendMemory:
	case CacheBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when CACHE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheBackendMemory, CacheBackendPostgres, c.CacheBackend)
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if strings.TrimSpace(c.TranslationProvider) == "" {
		return fmt.Errorf("TRANSLATION_PROVIDER is required")
	}
	if c.TranslationCacheTTL <= 0 {
		return fmt.Errorf("TRANSLATION_CACHE_TTL must be > 0")
	}
	if c.TranslationRequestsPerMinute < 0 {
		return fmt.Errorf("TRANSLATION_REQUESTS_PER_MINUTE must be >= 0")
	}
	if c.TranslationCatalogRetries < 1 {
		return fmt.Errorf("TRANSLATION_CATALOG_RETRIES must be >= 1")
	}
	if c.CommentRateLimit < 1 {
		return fmt.Errorf("COMMENT_RATE_LIMIT must be >= 1")
	}
	if c.CommentRateWindow <= 0 {
		return fmt.Errorf("COMMENT_RATE_WINDOW must be > 0")
	}
	return nil
}

// NormalizedCacheBackend returns the lower-cased cache backend name.
func (c *Config) NormalizedCacheBackend() string {
	if c == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.CacheBackend))
}

// SourceLanguagesList splits TRANSLATION_SOURCE_LANGUAGES into a de-duplicated
// list of upper-case language codes.
func (c *Config) SourceLanguagesList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.TranslationSourceLanguages, ",")
	langs := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		lang := strings.ToUpper(strings.TrimSpace(part))
		if lang == "" {
			continue
		}
		if _, exists := seen[lang]; exists {
			continue
		}
		seen[lang] = struct{}{}
		langs = append(langs, lang)
	}
	return langs
}
