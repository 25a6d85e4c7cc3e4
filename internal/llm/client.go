// Package llm provides provider-agnostic interfaces for the two model capabilities the
// brand book pipeline needs: a JSON chat completion and a single image generation.
package llm

import (
	"context"
	"errors"
)

// Temperature is fixed for brand book generation; it is not user-configurable.
const Temperature = 0.7

// ErrNotConfigured is returned on first use when a provider has no API key.
var ErrNotConfigured = errors.New("llm provider not configured")

// Client produces a JSON document from a system + user prompt pair.
// The provider only guarantees syntactically valid JSON, if that; callers validate shape.
type Client interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	ProviderName() string
	ModelName() string
}

// ImageGenerator creates one image per call and returns its URL.
// An empty URL with a nil error means the provider returned no image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
	ProviderName() string
	ImageModelName() string
}
