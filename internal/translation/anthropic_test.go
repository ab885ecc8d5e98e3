package translation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
)

type stubMessageCreator struct {
	requests []anthropic.MessagesRequest
	err      error
}

func (s *stubMessageCreator) CreateMessages(_ context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error) {
	s.requests = append(s.requests, req)
	return anthropic.MessagesResponse{}, s.err
}

func TestAnthropicProvider_RequestShape(t *testing.T) {
	t.Parallel()

	creator := &stubMessageCreator{}
	provider := NewAnthropicProvider("key", "")
	provider.client = creator

	_, err := provider.TranslateText(context.Background(), TextRequest{
		Text:               "Hallo **Welt**",
		SourceLang:         "DE",
		TargetLang:         "EN_GB",
		PreserveFormatting: true,
	})
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty response error, got %v", err)
	}
	if len(creator.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(creator.requests))
	}

	req := creator.requests[0]
	if req.Model != DefaultAnthropicModel || req.MaxTokens != defaultAnthropicMaxTokens {
		t.Fatalf("unexpected model settings: %q %d", req.Model, req.MaxTokens)
	}
	if !strings.Contains(req.System, "written in German") {
		t.Fatalf("expected source language in system prompt, got %q", req.System)
	}
}

func TestAnthropicProvider_ErrorIsWrapped(t *testing.T) {
	t.Parallel()

	provider := NewAnthropicProvider("key", "claude-test")
	provider.client = &stubMessageCreator{err: errors.New("connection reset")}

	_, err := provider.TranslateText(context.Background(), TextRequest{Text: "Hallo", TargetLang: "EN"})
	if err == nil || errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected non-quota error, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestBuildTranslationPrompt(t *testing.T) {
	t.Parallel()

	got := buildTranslationPrompt("Hello", "EN_GB", true)
	if !strings.Contains(got, "into English (EN-GB)") {
		t.Fatalf("expected regional label, got %q", got)
	}
	if !strings.Contains(got, "Markdown") || !strings.HasSuffix(got, "\n\nHello") {
		t.Fatalf("unexpected prompt: %q", got)
	}

	plain := buildTranslationPrompt("Hello", "FR", false)
	if strings.Contains(plain, "Markdown") {
		t.Fatalf("expected no formatting instruction, got %q", plain)
	}
}
