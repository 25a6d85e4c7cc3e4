package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client using Claude. It is only used when listed in
// llm.provider_order. Claude has no JSON response mode, so the contract lives in the
// prompt and the text blocks are concatenated as-is.
type AnthropicClient struct {
	client *anthropic.Client
	apiKey string
	model  string
}

// AnthropicOptions configures an AnthropicClient.
type AnthropicOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewAnthropicClient creates a Claude-backed brand book generator.
// SDK-level retries are disabled: a failed call fails the request.
func NewAnthropicClient(opts AnthropicOptions) *AnthropicClient {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	client := anthropic.NewClient(reqOpts...)
	return &AnthropicClient{
		client: &client,
		apiKey: opts.APIKey,
		model:  opts.Model,
	}
}

func (a *AnthropicClient) ProviderName() string { return "anthropic" }
func (a *AnthropicClient) ModelName() string    { return a.model }

func (a *AnthropicClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("anthropic: %w", ErrNotConfigured)
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   4096,
		Temperature: anthropic.Float(Temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic returned no text content")
	}

	return extractJSONObject(sb.String()), nil
}

// extractJSONObject trims any prose or code fence around the outermost JSON object.
// Input without braces is returned unchanged so the caller's parse step reports it.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
