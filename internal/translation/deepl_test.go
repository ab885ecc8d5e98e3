package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"horse.fit/quill/internal/cache"
)

func newDeepLServer(t *testing.T, translate http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/languages", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("type") {
		case "source":
			_, _ = w.Write([]byte(`[{"language":"EN","name":"English"},{"language":"DE","name":"German"}]`))
		case "target":
			_, _ = w.Write([]byte(`[{"language":"EN-GB","name":"English (British)"},{"language":"DE","name":"German"},{"language":"FR","name":"French"}]`))
		default:
			http.Error(w, "bad type", http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/translate", translate)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDeepLProvider_TargetLanguages(t *testing.T) {
	t.Parallel()

	server := newDeepLServer(t, http.NotFound)
	provider := NewDeepLProvider(server.URL, "test-key")

	pairs, err := provider.TargetLanguages(context.Background())
	if err != nil {
		t.Fatalf("target languages: %v", err)
	}
	want := []string{"EN-DE", "EN-FR", "DE-EN_GB", "DE-FR"}
	if !reflect.DeepEqual(pairs, want) {
		t.Fatalf("unexpected pairs: got %v want %v", pairs, want)
	}
}

func TestDeepLProvider_TranslateText(t *testing.T) {
	t.Parallel()

	requests := make(chan deepLTranslateRequest, 1)
	server := newDeepLServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var body deepLTranslateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		requests <- body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"DE","text":"Hello"}]}`))
	})
	provider := NewDeepLProvider(server.URL, "test-key")

	resp, err := provider.TranslateText(context.Background(), TextRequest{
		Text:               "Hallo",
		TargetLang:         "EN_GB",
		PreserveFormatting: true,
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if resp.Text != "Hello" || resp.DetectedSourceLang != "DE" || resp.ProviderName != DeepLProviderName {
		t.Fatalf("unexpected response: %+v", resp)
	}

	got := <-requests
	want := deepLTranslateRequest{Text: []string{"Hallo"}, TargetLang: "EN-GB", PreserveFormatting: true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected request: got %+v want %+v", got, want)
	}
}

func TestDeepLProvider_ErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status    int
		wantQuota bool
	}{
		{status: 456, wantQuota: true},
		{status: http.StatusTooManyRequests, wantQuota: true},
		{status: http.StatusInternalServerError, wantQuota: false},
	}

	for _, tt := range tests {
		status := tt.status
		server := newDeepLServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		})
		provider := NewDeepLProvider(server.URL, "test-key")

		_, err := provider.TranslateText(context.Background(), TextRequest{Text: "Hallo", TargetLang: "EN_GB"})
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if errors.Is(err, ErrQuotaExceeded) != tt.wantQuota {
			t.Fatalf("status %d: quota=%t, got %v", status, tt.wantQuota, err)
		}
		if !strings.Contains(err.Error(), "nope") {
			t.Fatalf("status %d: expected API message in error, got %v", status, err)
		}
	}
}

func TestDeepLProvider_EndpointFromKey(t *testing.T) {
	t.Parallel()

	if got := NewDeepLProvider("", "abc:fx").baseURL; got != DefaultDeepLFreeEndpoint {
		t.Fatalf("free key endpoint = %q", got)
	}
	if got := NewDeepLProvider("", "abc").baseURL; got != DefaultDeepLEndpoint {
		t.Fatalf("pro key endpoint = %q", got)
	}
	if got := NewDeepLProvider("http://localhost:9/v2/", "abc").baseURL; got != "http://localhost:9/v2" {
		t.Fatalf("override endpoint = %q", got)
	}
}

func TestClientWithDeepL(t *testing.T) {
	t.Parallel()

	var translateCalls atomic.Int32
	server := newDeepLServer(t, func(w http.ResponseWriter, _ *http.Request) {
		translateCalls.Add(1)
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"Bonjour"}]}`))
	})

	client, err := NewClient(context.Background(), ClientOptions{
		APIKey:          "test-key",
		Provider:        NewDeepLProvider(server.URL, "test-key"),
		Cache:           cache.NewMemory(nil),
		SourceLanguages: []string{"EN"},
		DetectSource:    noDetect,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if got := client.Catalog().Targets("EN"); !reflect.DeepEqual(got, []string{"DE", "FR"}) {
		t.Fatalf("unexpected EN targets: %v", got)
	}

	for i := 0; i < 2; i++ {
		result, err := client.Translate(context.Background(), "Hello", "fr", Options{})
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		if result.Text != "Bonjour" || result.DetectedSourceLang != "EN" {
			t.Fatalf("unexpected result: %+v", result)
		}
	}
	if got := translateCalls.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
}
