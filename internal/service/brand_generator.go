package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/brandbook-service/internal/llm"
	"github.com/fleveque/brandbook-service/internal/metrics"
	"github.com/fleveque/brandbook-service/internal/model"
)

// CallRecorder stores one row per model call. storage.LLMCallRepository satisfies it.
type CallRecorder interface {
	Create(ctx context.Context, call *model.LLMCall) error
}

// BrandGenerator turns a BrandInput into a BrandBook using a chat model, and
// produces logo artwork with an image model.
//
// Chat providers are tried in the configured order; with a single provider a failed
// call fails the request. Logo generation never fails: it returns whatever URLs it
// managed to collect.
type BrandGenerator struct {
	clients  []llm.Client
	imager   llm.ImageGenerator // nil disables logo generation
	limiter  *rate.Limiter      // nil means no outbound pacing
	recorder CallRecorder       // nil disables the call log
	logger   *zap.Logger
}

// NewBrandGenerator wires the generator. imagesPerMinute <= 0 disables pacing of
// image calls; otherwise a burst of 3 lets a single request through without waiting.
func NewBrandGenerator(
	clients []llm.Client,
	imager llm.ImageGenerator,
	imagesPerMinute int,
	recorder CallRecorder,
	logger *zap.Logger,
) *BrandGenerator {
	var limiter *rate.Limiter
	if imagesPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(imagesPerMinute)), 3)
	}

	return &BrandGenerator{
		clients:  clients,
		imager:   imager,
		limiter:  limiter,
		recorder: recorder,
		logger:   logger,
	}
}

// GenerateBrandBook asks the chat model for a brand book and validates its shape.
// The result has no logo images; see GenerateLogos.
func (g *BrandGenerator) GenerateBrandBook(ctx context.Context, input model.BrandInput) (*model.BrandBook, error) {
	raw, err := g.complete(ctx, SystemPrompt, BuildBrandPrompt(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	// An unparsable body is treated as an empty object so it fails the shape check
	// below with the same error as a structurally incomplete one.
	doc := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		g.logger.Warn("model returned unparsable JSON",
			zap.String("request_id", RequestIDFrom(ctx)),
			zap.Int("length", len(raw)),
			zap.Error(err),
		)
		doc = map[string]any{}
	}

	if err := validateBrandDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrGeneration, ErrIncompleteResult, err)
	}

	return decodeBrandBook(doc, input.Description), nil
}

// complete tries each chat provider in order. The first success wins.
func (g *BrandGenerator) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if len(g.clients) == 0 {
		return "", fmt.Errorf("no LLM providers configured")
	}

	var lastErr error
	for i, client := range g.clients {
		start := time.Now()
		raw, err := client.CompleteJSON(ctx, systemPrompt, userPrompt)
		g.record(ctx, client.ProviderName(), client.ModelName(), model.CallKindChat, start, err)
		if err == nil {
			return raw, nil
		}

		lastErr = err
		if i < len(g.clients)-1 {
			g.logger.Warn("LLM provider failed, trying next",
				zap.String("request_id", RequestIDFrom(ctx)),
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return "", lastErr
}

// GenerateLogos issues count sequential image requests built from one prompt and
// returns the URLs that came back. Individual failures are logged and skipped, so the
// result may be shorter than count or empty, but never nil.
func (g *BrandGenerator) GenerateLogos(ctx context.Context, book *model.BrandBook, count int) []string {
	urls := make([]string, 0, max(count, 0))
	if g.imager == nil || book == nil || count <= 0 {
		return urls
	}

	requestID := RequestIDFrom(ctx)
	prompt := BuildLogoPrompt(book)

	for i := 0; i < count; i++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				g.logger.Warn("skipping logo, pacing wait failed",
					zap.String("request_id", requestID),
					zap.Int("attempt", i+1),
					zap.Error(err),
				)
				metrics.LogoImages.WithLabelValues(metrics.OutcomeFailure).Inc()
				continue
			}
		}

		start := time.Now()
		url, err := g.imager.GenerateImage(ctx, prompt)
		g.record(ctx, g.imager.ProviderName(), g.imager.ImageModelName(), model.CallKindImage, start, err)

		if err != nil {
			g.logger.Warn("logo generation failed",
				zap.String("request_id", requestID),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			metrics.LogoImages.WithLabelValues(metrics.OutcomeFailure).Inc()
			continue
		}
		if url == "" {
			g.logger.Warn("logo generation returned no image",
				zap.String("request_id", requestID),
				zap.Int("attempt", i+1),
			)
			metrics.LogoImages.WithLabelValues(metrics.OutcomeFailure).Inc()
			continue
		}

		metrics.LogoImages.WithLabelValues(metrics.OutcomeSuccess).Inc()
		urls = append(urls, url)
	}

	return urls
}

func (g *BrandGenerator) record(ctx context.Context, provider, modelName string, kind model.CallKind, start time.Time, callErr error) {
	if g.recorder == nil {
		return
	}

	duration := time.Since(start).Milliseconds()
	call := &model.LLMCall{
		RequestID:  RequestIDFrom(ctx),
		Provider:   provider,
		Model:      modelName,
		Kind:       kind,
		Success:    callErr == nil,
		DurationMs: &duration,
	}
	if callErr != nil {
		msg := callErr.Error()
		call.ErrorMessage = &msg
	}

	// The request context may already be past its deadline; the log row should still land.
	if err := g.recorder.Create(context.WithoutCancel(ctx), call); err != nil {
		g.logger.Error("recording LLM call", zap.Error(err))
	}
}
