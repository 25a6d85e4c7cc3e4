package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/imagestore"
	"github.com/fleveque/brandbook-service/internal/llm"
	"github.com/fleveque/brandbook-service/internal/middleware"
	"github.com/fleveque/brandbook-service/internal/service"
	"github.com/fleveque/brandbook-service/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const brandJSON = `{
  "name": "Tidewell",
  "colorPalette": {"primary": "#1B4D3E", "secondary": "#A7C4A0", "accent": "#F2A65A", "background": "#FAFAF5", "text": "#1E1E1E"},
  "typography": {"headingFont": "Fraunces", "bodyFont": "Inter", "sampleHeadingSizes": {"h1": "48px", "h2": "32px", "h3": "24px"}},
  "brandVoice": {"tone": "Warm and grounded", "values": ["sustainability"], "keyPhrases": ["Refill the planet"], "personalityTraits": ["honest", "calm"]},
  "logoSuggestions": ["A droplet forming a leaf"],
  "visualStyle": {"imageStyle": "Natural light", "graphicElements": ["waves"], "layoutPrinciples": ["whitespace"], "iconStyle": "Rounded line icons", "photographyGuidelines": "Outdoor scenes"},
  "deckTemplate": {"titleSlide": "Full-bleed photo", "contentSlide": "Two columns", "imageSlide": "Edge to edge", "dataSlide": "Simple bars", "closingSlide": "Logo centered", "generalGuidelines": "Keep it airy"}
}`

var errBoom = errors.New("boom")

type stubStore struct {
	fail    bool
	uploads int
}

func (s *stubStore) Upload(_ context.Context, _ string) (*imagestore.Result, error) {
	s.uploads++
	if s.fail {
		return nil, errBoom
	}
	return &imagestore.Result{
		URL:      fmt.Sprintf("https://res.example.com/boards/%d.png", s.uploads),
		PublicID: fmt.Sprintf("boards/%d", s.uploads),
	}, nil
}

type stubEncoder struct{}

func (stubEncoder) EncodeDataURI(data []byte, declaredType string) (string, error) {
	return "data:" + declaredType + ";base64," + string(data), nil
}

type stubChat struct {
	response string
	err      error
	calls    int
}

func (s *stubChat) CompleteJSON(context.Context, string, string) (string, error) {
	s.calls++
	return s.response, s.err
}
func (s *stubChat) ProviderName() string { return "openai" }
func (s *stubChat) ModelName() string    { return "gpt-4o" }

type stubImager struct {
	fail  bool
	calls int
}

func (s *stubImager) GenerateImage(context.Context, string) (string, error) {
	s.calls++
	if s.fail {
		return "", errBoom
	}
	return fmt.Sprintf("https://images.example.com/logo-%d.png", s.calls), nil
}
func (s *stubImager) ProviderName() string   { return "openai" }
func (s *stubImager) ImageModelName() string { return "dall-e-3" }

// testEnv is a router backed by the real pipeline with stubbed external services.
type testEnv struct {
	router *gin.Engine
	store  *stubStore
	chat   *stubChat
	imager *stubImager
}

func newTestEnv(t *testing.T, chatResponse string) *testEnv {
	t.Helper()

	env := &testEnv{
		store:  &stubStore{},
		chat:   &stubChat{response: chatResponse},
		imager: &stubImager{},
	}
	gen := service.NewBrandGenerator([]llm.Client{env.chat}, env.imager, 0, nil, zap.NewNop())
	pipeline := service.NewPipeline(env.store, stubEncoder{}, gen, service.DefaultLogoCount, zap.NewNop())
	env.router = newRouter(t, pipeline)
	return env
}

func newRouter(t *testing.T, generator Generator) *gin.Engine {
	t.Helper()
	return newRouterWithLimit(t, generator, 0)
}

func newRouterWithLimit(t *testing.T, generator Generator, maxUploadBytes int64) *gin.Engine {
	t.Helper()

	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.RequestID())

	api := NewGenerateHandler(generator, 0, maxUploadBytes, zap.NewNop())
	pages := NewPageHandler(generator, 0, maxUploadBytes, zap.NewNop())
	r.POST("/api/generate", api.Generate)
	r.GET("/", pages.Index)
	r.POST("/generate", pages.Generate)
	return r
}

type part struct {
	name, filename, contentType, content string
}

// multipartBody encodes text fields and file parts in order.
func multipartBody(t *testing.T, fields map[string]string, files ...part) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("writing field: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.name, f.filename))
		h.Set("Content-Type", f.contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("creating part: %v", err)
		}
		if _, err := pw.Write([]byte(f.content)); err != nil {
			t.Fatalf("writing part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func postMultipart(t *testing.T, r http.Handler, path string, fields map[string]string, files ...part) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, files...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pngPart(filename string) part {
	return part{name: "images", filename: filename, contentType: "image/png", content: "png-bytes-" + filename}
}
