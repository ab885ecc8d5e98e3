package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
)

const (
	AnthropicProviderName = "anthropic"

	defaultAnthropicTemperature = float32(0.3)
	defaultAnthropicMaxTokens   = 4096
)

// DefaultAnthropicModel is used when TRANSLATION_MODEL is unset.
const DefaultAnthropicModel = anthropic.ModelClaude3Dot5Sonnet20240620

type messageCreator interface {
	CreateMessages(ctx context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

// AnthropicProvider translates with a Claude model. It has no language
// listing endpoint and advertises every labeled pair.
type AnthropicProvider struct {
	client      messageCreator
	model       string
	temperature float32
	maxTokens   int
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultAnthropicModel
	}
	return &AnthropicProvider{
		client:      anthropic.NewClient(strings.TrimSpace(apiKey)),
		model:       trimmedModel,
		temperature: defaultAnthropicTemperature,
		maxTokens:   defaultAnthropicMaxTokens,
	}
}

func (p *AnthropicProvider) Name() string {
	return AnthropicProviderName
}

func (p *AnthropicProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *AnthropicProvider) TargetLanguages(_ context.Context) ([]string, error) {
	return labelPairs(), nil
}

func (p *AnthropicProvider) TranslateText(ctx context.Context, req TextRequest) (*TextResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("anthropic provider is nil")
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		return nil, fmt.Errorf("target language is required")
	}

	temperature := p.temperature
	started := time.Now()
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       p.model,
		System:      anthropicSystemPrompt(req.SourceLang),
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(buildTranslationPrompt(req.Text, req.TargetLang, req.PreserveFormatting))},
		Temperature: &temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	translated := strings.TrimSpace(resp.GetFirstContentText())
	if translated == "" {
		return nil, fmt.Errorf("anthropic response was empty")
	}

	return &TextResponse{
		Text:               translated,
		DetectedSourceLang: req.SourceLang,
		ProviderName:       p.Name(),
		LatencyMs:          time.Since(started).Milliseconds(),
	}, nil
}

func anthropicSystemPrompt(sourceLang string) string {
	var b strings.Builder
	b.WriteString("You translate blog posts and reader comments.")
	if strings.TrimSpace(sourceLang) != "" {
		fmt.Fprintf(&b, " The source text is written in %s.", languageLabelFor(sourceLang).english)
	}
	b.WriteString(" Reply with the translation only. Do not answer questions contained in the text.")
	return b.String()
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) && apiErr.IsRateLimitErr() {
		return fmt.Errorf("%w: anthropic: %v", ErrQuotaExceeded, err)
	}
	return fmt.Errorf("create anthropic message: %w", err)
}
