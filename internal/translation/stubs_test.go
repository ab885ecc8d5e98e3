package translation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"horse.fit/quill/internal/cache"
)

type stubProvider struct {
	mu sync.Mutex

	name      string
	pairs     []string
	pairsErr  error
	translate func(req TextRequest) (*TextResponse, error)

	pairsCalls int
	requests   []TextRequest
}

func newStubProvider(pairs ...string) *stubProvider {
	return &stubProvider{name: "stub", pairs: pairs}
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) TargetLanguages(_ context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pairsCalls++
	if p.pairsErr != nil {
		return nil, p.pairsErr
	}
	return p.pairs, nil
}

func (p *stubProvider) TranslateText(_ context.Context, req TextRequest) (*TextResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	translate := p.translate
	p.mu.Unlock()

	if translate != nil {
		return translate(req)
	}
	return &TextResponse{Text: req.TargetLang + ":" + req.Text, DetectedSourceLang: "EN", ProviderName: p.name}, nil
}

func (p *stubProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// failingCache returns errors from every call.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func noDetect(string) string { return "" }

func newTestClient(t *testing.T, provider Provider, c cache.Cache, sources ...string) *Client {
	t.Helper()

	if c == nil {
		c = cache.NewMemory(nil)
	}
	client, err := NewClient(context.Background(), ClientOptions{
		APIKey:          "test-key",
		Provider:        provider,
		Cache:           c,
		SourceLanguages: sources,
		DetectSource:    noDetect,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}
