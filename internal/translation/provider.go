package translation

import "context"

// Provider is a remote translation service.
//
// TargetLanguages advertises supported pairs as "SRC-TGT" catalog codes
// (see language.CatalogCode). TranslateText receives catalog codes and
// returns an error wrapping ErrQuotaExceeded when the provider refuses work
// because of quota or rate limits.
type Provider interface {
	Name() string
	TargetLanguages(ctx context.Context) ([]string, error)
	TranslateText(ctx context.Context, req TextRequest) (*TextResponse, error)
}

// TextRequest describes one provider call. An empty SourceLang asks the
// provider to detect the source language.
type TextRequest struct {
	Text               string
	SourceLang         string
	TargetLang         string
	PreserveFormatting bool
}

// TextResponse contains translated text and provider metadata.
type TextResponse struct {
	Text               string
	DetectedSourceLang string
	ProviderName       string
	LatencyMs          int64
}
