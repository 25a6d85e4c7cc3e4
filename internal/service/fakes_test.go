package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/imagestore"
	"github.com/fleveque/brandbook-service/internal/llm"
	"github.com/fleveque/brandbook-service/internal/model"
)

const validBrandJSON = `{
  "name": "Tidewell",
  "colorPalette": {"primary": "#1B4D3E", "secondary": "#A7C4A0", "accent": "#F2A65A", "background": "#FAFAF5", "text": "#1E1E1E"},
  "typography": {"headingFont": "Fraunces", "bodyFont": "Inter", "sampleHeadingSizes": {"h1": "48px", "h2": "32px", "h3": "24px"}},
  "brandVoice": {"tone": "Warm and grounded", "values": ["sustainability"], "keyPhrases": ["Refill the planet"], "personalityTraits": ["honest", "calm", "optimistic"]},
  "logoSuggestions": ["A droplet forming a leaf"],
  "visualStyle": {"imageStyle": "Natural light", "graphicElements": ["waves"], "layoutPrinciples": ["whitespace"], "iconStyle": "Rounded line icons", "photographyGuidelines": "Outdoor scenes"},
  "deckTemplate": {"titleSlide": "Full-bleed photo", "contentSlide": "Two columns", "imageSlide": "Edge to edge", "dataSlide": "Simple bars", "closingSlide": "Logo centered", "generalGuidelines": "Keep it airy"}
}`

var errBoom = errors.New("boom")

// fakeStore numbers uploads from 1 and fails on the failAt-th call.
type fakeStore struct {
	failAt int
	uris   []string
}

func (f *fakeStore) Upload(_ context.Context, dataURI string) (*imagestore.Result, error) {
	f.uris = append(f.uris, dataURI)
	n := len(f.uris)
	if n == f.failAt {
		return nil, fmt.Errorf("host unavailable: %w", errBoom)
	}
	return &imagestore.Result{
		URL:      fmt.Sprintf("https://res.example.com/boards/%d.png", n),
		PublicID: fmt.Sprintf("boards/%d", n),
	}, nil
}

type fakeChat struct {
	name     string
	response string
	err      error

	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeChat) CompleteJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.response, f.err
}

func (f *fakeChat) ProviderName() string { return f.name }
func (f *fakeChat) ModelName() string    { return f.name + "-model" }

// fakeImager returns results[i] on the i-th call; past the end it returns a URL.
type fakeImager struct {
	results []imageResult
	prompts []string
}

type imageResult struct {
	url string
	err error
}

func (f *fakeImager) GenerateImage(_ context.Context, prompt string) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if i < len(f.results) {
		return f.results[i].url, f.results[i].err
	}
	return fmt.Sprintf("https://images.example.com/logo-%d.png", i+1), nil
}

func (f *fakeImager) ProviderName() string   { return "fake" }
func (f *fakeImager) ImageModelName() string { return "fake-image" }

type memRecorder struct {
	mu    sync.Mutex
	calls []model.LLMCall
}

func (m *memRecorder) Create(_ context.Context, call *model.LLMCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, *call)
	return nil
}

// plainEncoder skips bimg so service tests do not need libvips.
type plainEncoder struct{}

func (plainEncoder) EncodeDataURI(data []byte, declaredType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image payload")
	}
	return "data:" + declaredType + ";base64," + string(data), nil
}

func imageFile(name, content string) ImageFile {
	return ImageFile{
		Filename:    name,
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

type pipelineFixture struct {
	store    *fakeStore
	chat     *fakeChat
	imager   *fakeImager
	recorder *memRecorder
	pipeline *Pipeline
}

func newPipelineFixture(chatResponse string) *pipelineFixture {
	f := &pipelineFixture{
		store:    &fakeStore{},
		chat:     &fakeChat{name: "openai", response: chatResponse},
		imager:   &fakeImager{},
		recorder: &memRecorder{},
	}
	gen := NewBrandGenerator([]llm.Client{f.chat}, f.imager, 0, f.recorder, zap.NewNop())
	f.pipeline = NewPipeline(f.store, plainEncoder{}, gen, DefaultLogoCount, zap.NewNop())
	return f
}
