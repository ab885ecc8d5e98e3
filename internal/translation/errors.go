package translation

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration       = errors.New("translation client is not configured")
	ErrEmptyInput          = errors.New("no text provided for translation")
	ErrUnsupportedLanguage = errors.New("language is not supported")
	ErrQuotaExceeded       = errors.New("translation quota exceeded")
	ErrCatalogUnavailable  = errors.New("supported language catalog is unavailable")
	ErrMalformedPair       = errors.New("malformed language pair")
)

// Kind is the coarse error category callers map to their own response codes.
type Kind string

const (
	KindNone                Kind = ""
	KindConfiguration       Kind = "configuration"
	KindEmptyInput          Kind = "empty_input"
	KindUnsupportedLanguage Kind = "unsupported_language"
	KindQuotaExceeded       Kind = "quota_exceeded"
	KindCatalogUnavailable  Kind = "catalog_unavailable"
	KindProvider            Kind = "provider"
	KindUnknown             Kind = "unknown"
)

// ProviderError wraps a provider failure that is not a quota problem.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("translation failed (%s): %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Wrapped errors are classified by their innermost
// known cause, quota before generic provider failures.
func KindOf(err error) Kind {
	var providerErr *ProviderError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrMalformedPair):
		return KindConfiguration
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ErrUnsupportedLanguage):
		return KindUnsupportedLanguage
	case errors.Is(err, ErrCatalogUnavailable):
		return KindCatalogUnavailable
	case errors.Is(err, ErrQuotaExceeded):
		return KindQuotaExceeded
	case errors.As(err, &providerErr):
		return KindProvider
	default:
		return KindUnknown
	}
}
