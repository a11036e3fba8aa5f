package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/transmem"
)

// OpenAI implements Provider using OpenAI's chat-completion API.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // model to use (default: "gpt-4o-mini")
	Temperature float32 // temperature for generation (default: 0.2)
	BaseURL     string  // custom base URL (optional)
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates a single segment for the given language pair.
func (p *OpenAI) Translate(ctx context.Context, text, pair string) (string, error) {
	if err := transmem.ValidatePair(pair); err != nil {
		return "", err
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(pair)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &transmem.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &transmem.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// systemPrompt builds the translation instruction for a language pair.
func systemPrompt(pair string) string {
	source, target, _ := transmem.SplitPair(pair)
	return fmt.Sprintf(`You are a professional translator. Translate the user's text from %s to %s.
Reply with the translation only: no preamble, no labels, no apologies, no quotation marks around the result.
Preserve the meaning and register of the original. Do not translate proper nouns, URLs, or email addresses.`,
		transmem.LanguageName(source), transmem.LanguageName(target))
}

// isRetryableError classifies API failures: rate limits and server errors
// can be retried, auth and request errors cannot.
func isRetryableError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	// Transport-level failures are worth one more try.
	return true
}

// Verify OpenAI implements Provider.
var _ Provider = (*OpenAI)(nil)
