package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/llm"
	"github.com/fleveque/brandbook-service/internal/model"
)

var sampleInput = model.BrandInput{
	Description: "eco-friendly water bottle",
	MoodboardImages: []model.MoodboardImage{
		{ID: "img-1", URL: "https://res.example.com/boards/1.png"},
	},
}

func TestGenerateBrandBook_UsesSystemPromptAndInput(t *testing.T) {
	chat := &fakeChat{name: "openai", response: validBrandJSON}
	gen := NewBrandGenerator([]llm.Client{chat}, nil, 0, nil, zap.NewNop())

	book, err := gen.GenerateBrandBook(context.Background(), sampleInput)
	require.NoError(t, err)

	assert.Equal(t, SystemPrompt, chat.lastSystem)
	assert.Contains(t, chat.lastUser, "eco-friendly water bottle")
	assert.Contains(t, chat.lastUser, "Image URL: https://res.example.com/boards/1.png")
	assert.Nil(t, book.LogoImages, "logos are added by the caller")
	assert.Equal(t, "Fraunces", book.Typography.HeadingFont)
}

func TestGenerateBrandBook_MissingSections(t *testing.T) {
	responses := []string{
		`{}`,
		`[]`,
		`{"colorPalette": {"primary": "#000"}}`,
		`{"colorPalette": null, "typography": {}, "brandVoice": {}, "visualStyle": {}, "deckTemplate": {}}`,
		`{"colorPalette": "#000000", "typography": {}, "brandVoice": {}, "visualStyle": {}, "deckTemplate": {}}`,
		`null`,
	}

	for _, resp := range responses {
		gen := NewBrandGenerator([]llm.Client{&fakeChat{name: "openai", response: resp}}, nil, 0, nil, zap.NewNop())

		_, err := gen.GenerateBrandBook(context.Background(), sampleInput)
		assert.ErrorIs(t, err, ErrGeneration, "response %s", resp)
		assert.ErrorIs(t, err, ErrIncompleteResult, "response %s", resp)
	}
}

func TestGenerateBrandBook_MinimalSectionsAccepted(t *testing.T) {
	resp := `{"colorPalette": {}, "typography": {}, "brandVoice": {}, "visualStyle": {}, "deckTemplate": {}}`
	gen := NewBrandGenerator([]llm.Client{&fakeChat{name: "openai", response: resp}}, nil, 0, nil, zap.NewNop())

	book, err := gen.GenerateBrandBook(context.Background(), sampleInput)
	require.NoError(t, err)
	assert.True(t, book.Complete())
	assert.Empty(t, book.LogoSuggestions)
}

func TestGenerateBrandBook_LenientFieldTypes(t *testing.T) {
	resp := `{
	  "name": 7,
	  "colorPalette": {"primary": "#1B4D3E", "secondary": {"hex": "#A7C4A0"}, "accent": "#F2A65A", "background": "#FAFAF5", "text": "#1E1E1E"},
	  "typography": {"headingFont": "Fraunces", "bodyFont": "Inter", "sampleHeadingSizes": {"h1": 48, "h2": "32px", "h3": 24.5}},
	  "brandVoice": {"tone": "Warm", "values": ["care", 3, {"x": 1}], "keyPhrases": [], "personalityTraits": ["calm", true]},
	  "logoSuggestions": [{"concept": "A droplet"}],
	  "visualStyle": {"imageStyle": "Natural", "graphicElements": "waves", "layoutPrinciples": ["whitespace"], "iconStyle": null, "photographyGuidelines": "Outdoor"},
	  "deckTemplate": {"titleSlide": "Photo", "contentSlide": "Columns", "imageSlide": "Bleed", "dataSlide": "Bars", "closingSlide": "Logo", "generalGuidelines": "Airy"}
	}`
	gen := NewBrandGenerator([]llm.Client{&fakeChat{name: "openai", response: resp}}, nil, 0, nil, zap.NewNop())

	book, err := gen.GenerateBrandBook(context.Background(), sampleInput)
	require.NoError(t, err)
	require.True(t, book.Complete())

	assert.Equal(t, "7", book.Name)
	assert.Equal(t, "#1B4D3E", book.ColorPalette.Primary)
	assert.Empty(t, book.ColorPalette.Secondary, "non-scalar values become empty")
	assert.Equal(t, model.HeadingSizes{H1: "48", H2: "32px", H3: "24.5"}, book.Typography.SampleHeadingSizes)
	assert.Equal(t, []string{"care", "3"}, book.BrandVoice.Values)
	assert.Equal(t, []string{"calm", "true"}, book.BrandVoice.PersonalityTraits)
	assert.Nil(t, book.LogoSuggestions, "a malformed optional list is dropped")
	assert.Nil(t, book.VisualStyle.GraphicElements)
	assert.Empty(t, book.VisualStyle.IconStyle)
	assert.Equal(t, "Airy", book.DeckTemplate.GeneralGuidelines)
}

func TestGenerateBrandBook_NonListLogoSuggestionsDropped(t *testing.T) {
	resp := `{"colorPalette": {}, "typography": {}, "brandVoice": {}, "visualStyle": {}, "deckTemplate": {}, "logoSuggestions": "one"}`
	gen := NewBrandGenerator([]llm.Client{&fakeChat{name: "openai", response: resp}}, nil, 0, nil, zap.NewNop())

	book, err := gen.GenerateBrandBook(context.Background(), sampleInput)
	require.NoError(t, err)
	assert.Nil(t, book.LogoSuggestions)
}

func TestGenerateBrandBook_NoProviders(t *testing.T) {
	gen := NewBrandGenerator(nil, nil, 0, nil, zap.NewNop())

	_, err := gen.GenerateBrandBook(context.Background(), sampleInput)
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGenerateBrandBook_FallsBackInConfiguredOrder(t *testing.T) {
	primary := &fakeChat{name: "openai", err: errBoom}
	fallback := &fakeChat{name: "anthropic", response: validBrandJSON}
	rec := &memRecorder{}
	gen := NewBrandGenerator([]llm.Client{primary, fallback}, nil, 0, rec, zap.NewNop())

	book, err := gen.GenerateBrandBook(WithRequestID(context.Background(), "req-7"), sampleInput)
	require.NoError(t, err)
	assert.NotNil(t, book.ColorPalette)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, "openai", rec.calls[0].Provider)
	assert.False(t, rec.calls[0].Success)
	require.NotNil(t, rec.calls[0].ErrorMessage)
	assert.Contains(t, *rec.calls[0].ErrorMessage, "boom")
	assert.Equal(t, "anthropic", rec.calls[1].Provider)
	assert.True(t, rec.calls[1].Success)
	assert.Equal(t, "req-7", rec.calls[1].RequestID)
}

func TestGenerateBrandBook_SingleProviderIsNotRetried(t *testing.T) {
	chat := &fakeChat{name: "openai", err: errBoom}
	gen := NewBrandGenerator([]llm.Client{chat}, nil, 0, nil, zap.NewNop())

	_, err := gen.GenerateBrandBook(context.Background(), sampleInput)
	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, chat.calls)
}

func sampleBook(t *testing.T) *model.BrandBook {
	t.Helper()
	gen := NewBrandGenerator([]llm.Client{&fakeChat{name: "openai", response: validBrandJSON}}, nil, 0, nil, zap.NewNop())
	book, err := gen.GenerateBrandBook(context.Background(), sampleInput)
	require.NoError(t, err)
	return book
}

func TestGenerateLogos_SamePromptForEveryCall(t *testing.T) {
	imager := &fakeImager{}
	gen := NewBrandGenerator(nil, imager, 0, nil, zap.NewNop())

	urls := gen.GenerateLogos(context.Background(), sampleBook(t), 3)

	assert.Len(t, urls, 3)
	require.Len(t, imager.prompts, 3)
	assert.Equal(t, imager.prompts[0], imager.prompts[1])
	assert.Equal(t, imager.prompts[1], imager.prompts[2])
}

func TestGenerateLogos_DropsFailuresAndEmptyURLs(t *testing.T) {
	imager := &fakeImager{results: []imageResult{
		{url: "https://images.example.com/a.png"},
		{err: errBoom},
		{url: ""},
	}}
	rec := &memRecorder{}
	gen := NewBrandGenerator(nil, imager, 0, rec, zap.NewNop())

	urls := gen.GenerateLogos(context.Background(), sampleBook(t), 3)

	assert.Equal(t, []string{"https://images.example.com/a.png"}, urls)
	require.Len(t, rec.calls, 3)
	assert.Equal(t, model.CallKindImage, rec.calls[1].Kind)
	assert.False(t, rec.calls[1].Success)
}

func TestGenerateLogos_NoImagerOrZeroCount(t *testing.T) {
	book := sampleBook(t)

	urls := NewBrandGenerator(nil, nil, 0, nil, zap.NewNop()).GenerateLogos(context.Background(), book, 3)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)

	imager := &fakeImager{}
	urls = NewBrandGenerator(nil, imager, 0, nil, zap.NewNop()).GenerateLogos(context.Background(), book, 0)
	assert.Empty(t, urls)
	assert.Empty(t, imager.prompts)
}

func TestGenerateLogos_PacingWaitFailureSkipsCalls(t *testing.T) {
	imager := &fakeImager{}
	gen := NewBrandGenerator(nil, imager, 1, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls := gen.GenerateLogos(ctx, sampleBook(t), 3)
	assert.Empty(t, urls)
	assert.Empty(t, imager.prompts)
}

func TestGenerateLogos_BurstCoversOneRequest(t *testing.T) {
	imager := &fakeImager{}
	gen := NewBrandGenerator(nil, imager, 1, nil, zap.NewNop())

	urls := gen.GenerateLogos(context.Background(), sampleBook(t), 3)
	assert.Len(t, urls, 3)
	assert.True(t, strings.HasPrefix(urls[0], "https://images.example.com/"))
}
