package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"horse.fit/quill/internal/language"
)

const (
	DeepLProviderName = "deepl"

	DefaultDeepLEndpoint     = "https://api.deepl.com/v2"
	DefaultDeepLFreeEndpoint = "https://api-free.deepl.com/v2"

	// deepLQuotaStatus is DeepL's "quota exceeded" response code.
	deepLQuotaStatus = 456
)

// DeepLProvider calls the DeepL REST API.
type DeepLProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewDeepLProvider builds a DeepL provider. A blank endpoint selects the free
// or pro API from the key suffix (":fx" keys belong to the free plan).
func NewDeepLProvider(endpoint, apiKey string) *DeepLProvider {
	key := strings.TrimSpace(apiKey)
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if base == "" {
		base = DefaultDeepLEndpoint
		if strings.HasSuffix(key, ":fx") {
			base = DefaultDeepLFreeEndpoint
		}
	}
	return &DeepLProvider{
		baseURL: base,
		apiKey:  key,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *DeepLProvider) Name() string {
	return DeepLProviderName
}

// TargetLanguages crosses DeepL's source and target language lists into
// "SRC-TGT" pairs. Identical primary languages are skipped.
func (p *DeepLProvider) TargetLanguages(ctx context.Context) ([]string, error) {
	sources, err := p.listLanguages(ctx, "source")
	if err != nil {
		return nil, err
	}
	targets, err := p.listLanguages(ctx, "target")
	if err != nil {
		return nil, err
	}

	pairs := make([]string, 0, len(sources)*len(targets))
	for _, source := range sources {
		for _, target := range targets {
			if language.NormalizeCode(source) == language.NormalizeCode(target) {
				continue
			}
			pairs = append(pairs, source+"-"+target)
		}
	}
	return pairs, nil
}

func (p *DeepLProvider) listLanguages(ctx context.Context, kind string) ([]string, error) {
	endpoint := p.baseURL + "/languages?" + url.Values{"type": {kind}}.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build deepl %s languages request: %w", kind, err)
	}
	p.authorize(httpReq)

	respBody, err := p.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list deepl %s languages: %w", kind, err)
	}

	var parsed []deepLLanguage
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode deepl %s languages: %w", kind, err)
	}

	codes := make([]string, 0, len(parsed))
	for _, item := range parsed {
		if code := language.CatalogCode(item.Language); code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (p *DeepLProvider) TranslateText(ctx context.Context, req TextRequest) (*TextResponse, error) {
	if p == nil {
		return nil, fmt.Errorf("deepl provider is nil")
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		return nil, fmt.Errorf("target language is required")
	}

	payload := deepLTranslateRequest{
		Text:               []string{req.Text},
		TargetLang:         language.WireTag(req.TargetLang),
		PreserveFormatting: req.PreserveFormatting,
	}
	if strings.TrimSpace(req.SourceLang) != "" {
		// DeepL only accepts primary subtags as source languages.
		payload.SourceLang = strings.ToUpper(language.NormalizeCode(req.SourceLang))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal deepl request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build deepl request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	p.authorize(httpReq)

	respBody, err := p.do(httpReq)
	if err != nil {
		return nil, err
	}

	var parsed deepLTranslateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode deepl response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return nil, fmt.Errorf("deepl response missing translations")
	}

	first := parsed.Translations[0]
	return &TextResponse{
		Text:               first.Text,
		DetectedSourceLang: language.CatalogCode(first.DetectedSourceLanguage),
		ProviderName:       p.Name(),
		LatencyMs:          time.Since(started).Milliseconds(),
	}, nil
}

func (p *DeepLProvider) authorize(req *http.Request) {
	req.Header.Set("Authorization", "DeepL-Auth-Key "+p.apiKey)
}

// do sends req and returns the body of a 2xx response. Quota and rate-limit
// statuses wrap ErrQuotaExceeded.
func (p *DeepLProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send deepl request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read deepl response: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}

	msg := strings.TrimSpace(string(respBody))
	var errPayload deepLErrorResponse
	if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil && strings.TrimSpace(errPayload.Message) != "" {
		msg = strings.TrimSpace(errPayload.Message)
	}

	switch resp.StatusCode {
	case deepLQuotaStatus, http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: deepl status %d: %s", ErrQuotaExceeded, resp.StatusCode, msg)
	default:
		return nil, fmt.Errorf("deepl status %d: %s", resp.StatusCode, msg)
	}
}

type deepLLanguage struct {
	Language string `json:"language"`
	Name     string `json:"name"`
}

type deepLTranslateRequest struct {
	Text               []string `json:"text"`
	TargetLang         string   `json:"target_lang"`
	SourceLang         string   `json:"source_lang,omitempty"`
	PreserveFormatting bool     `json:"preserve_formatting"`
}

type deepLTranslateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

type deepLErrorResponse struct {
	Message string `json:"message"`
}
