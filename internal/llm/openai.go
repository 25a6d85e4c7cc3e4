package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client (chat completions in JSON mode) and ImageGenerator
// (DALL·E) on top of go-openai.
type OpenAIClient struct {
	client     *openai.Client
	apiKey     string
	model      string
	imageModel string
}

// OpenAIOptions configures an OpenAIClient. BaseURL is only set in tests or when
// routing through a compatible gateway.
type OpenAIOptions struct {
	APIKey     string
	Model      string
	ImageModel string
	BaseURL    string
	Timeout    time.Duration
}

// NewOpenAIClient creates a client. A missing key is reported on the first call.
func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return &OpenAIClient{
		client:     openai.NewClientWithConfig(cfg),
		apiKey:     opts.APIKey,
		model:      opts.Model,
		imageModel: opts.ImageModel,
	}
}

func (o *OpenAIClient) ProviderName() string   { return "openai" }
func (o *OpenAIClient) ModelName() string      { return o.model }
func (o *OpenAIClient) ImageModelName() string { return o.imageModel }

// CompleteJSON requests a json_object completion at the fixed temperature.
func (o *OpenAIClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("openai: %w", ErrNotConfigured)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests a single 1024x1024 image and returns its hosted URL.
func (o *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("openai: %w", ErrNotConfigured)
	}

	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		Style:          openai.CreateImageStyleVivid,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("openai image API call: %w", err)
	}

	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].URL, nil
}
