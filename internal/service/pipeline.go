package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/imagestore"
	"github.com/fleveque/brandbook-service/internal/metrics"
	"github.com/fleveque/brandbook-service/internal/model"
)

// DefaultLogoCount is how many logo images each request asks for.
const DefaultLogoCount = 3

// ImageFile is one submitted moodboard file. Open is called once, during the upload
// step, so validation never touches file contents.
type ImageFile struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// GenerateRequest is the raw submission. The tags are the only input validation the
// service performs.
type GenerateRequest struct {
	Description string      `validate:"required"`
	Images      []ImageFile `validate:"required,min=1"`
}

// Result is what a successful run produces. MoodboardImages has the same order and
// length as the submitted files.
type Result struct {
	BrandBook       *model.BrandBook
	MoodboardImages []model.MoodboardImage
}

// BrandBookGenerator is the two-operation contract the pipeline needs from the
// generation layer. *BrandGenerator implements it.
type BrandBookGenerator interface {
	GenerateBrandBook(ctx context.Context, input model.BrandInput) (*model.BrandBook, error)
	GenerateLogos(ctx context.Context, book *model.BrandBook, count int) []string
}

// DataURIEncoder turns upload bytes into the payload the image store accepts.
type DataURIEncoder interface {
	EncodeDataURI(data []byte, declaredType string) (string, error)
}

// Pipeline drives one brand book request:
//
//	validate → upload images (sequential) → generate brand book → generate logos → check completeness
//
// Every step runs on the caller's goroutine. The first failure aborts the run; images
// uploaded before it are left on the host.
type Pipeline struct {
	store     imagestore.Store
	encoder   DataURIEncoder
	generator BrandBookGenerator
	validate  *validator.Validate
	logoCount int
	logger    *zap.Logger
}

// NewPipeline creates a pipeline. logoCount <= 0 falls back to DefaultLogoCount.
func NewPipeline(
	store imagestore.Store,
	encoder DataURIEncoder,
	generator BrandBookGenerator,
	logoCount int,
	logger *zap.Logger,
) *Pipeline {
	if logoCount <= 0 {
		logoCount = DefaultLogoCount
	}
	return &Pipeline{
		store:     store,
		encoder:   encoder,
		generator: generator,
		validate:  validator.New(),
		logoCount: logoCount,
		logger:    logger,
	}
}

// Run executes the pipeline. Errors wrap one of the package sentinels.
func (p *Pipeline) Run(ctx context.Context, req GenerateRequest) (*Result, error) {
	start := time.Now()
	result, err := p.run(ctx, req)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	metrics.Generations.WithLabelValues(outcomeLabel(err)).Inc()
	return result, err
}

func (p *Pipeline) run(ctx context.Context, req GenerateRequest) (*Result, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := p.validateRequest(req); err != nil {
		return nil, err
	}

	requestID := RequestIDFrom(ctx)

	images, err := p.uploadImages(ctx, req.Images)
	if err != nil {
		return nil, err
	}
	p.logger.Info("moodboard uploaded",
		zap.String("request_id", requestID),
		zap.Int("images", len(images)),
	)

	book, err := p.generator.GenerateBrandBook(ctx, model.BrandInput{
		Description:     req.Description,
		MoodboardImages: images,
	})
	if err != nil {
		return nil, err
	}

	// Checked before the logo calls so an unusable result does not spend image credits.
	if !book.Complete() {
		return nil, ErrIncompleteResult
	}

	book.LogoImages = p.generator.GenerateLogos(ctx, book, p.logoCount)
	if book.LogoImages == nil {
		book.LogoImages = []string{}
	}

	p.logger.Info("brand book generated",
		zap.String("request_id", requestID),
		zap.Int("logo_images", len(book.LogoImages)),
	)

	return &Result{BrandBook: book, MoodboardImages: images}, nil
}

// validateRequest maps validator field errors onto the two input error kinds.
// A missing description is reported ahead of missing images.
func (p *Pipeline) validateRequest(req GenerateRequest) error {
	err := p.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating request: %w", err)
	}

	var missingImages bool
	for _, fe := range fieldErrs {
		switch fe.StructField() {
		case "Description":
			return ErrMissingDescription
		case "Images":
			missingImages = true
		}
	}
	if missingImages {
		return ErrMissingImages
	}
	return fmt.Errorf("validating request: %w", err)
}

// uploadImages reads, encodes and uploads each file in order, one at a time.
func (p *Pipeline) uploadImages(ctx context.Context, files []ImageFile) ([]model.MoodboardImage, error) {
	images := make([]model.MoodboardImage, 0, len(files))

	for i, f := range files {
		img, err := p.uploadOne(ctx, f)
		if err != nil {
			metrics.ImageUploads.WithLabelValues(metrics.OutcomeFailure).Inc()
			return nil, fmt.Errorf("%w: image %d (%s): %w", ErrUpload, i+1, f.Filename, err)
		}
		metrics.ImageUploads.WithLabelValues(metrics.OutcomeSuccess).Inc()
		images = append(images, *img)
	}

	return images, nil
}

func (p *Pipeline) uploadOne(ctx context.Context, f ImageFile) (*model.MoodboardImage, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("no content")
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	dataURI, err := p.encoder.EncodeDataURI(data, f.ContentType)
	if err != nil {
		return nil, fmt.Errorf("encoding upload: %w", err)
	}

	res, err := p.store.Upload(ctx, dataURI)
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.New(12)
	if err != nil {
		return nil, fmt.Errorf("generate moodboard id: %w", err)
	}

	return &model.MoodboardImage{
		ID:       "img-" + id,
		URL:      res.URL,
		PublicID: res.PublicID,
	}, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsValidation(err):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrIncompleteResult):
		return metrics.OutcomeIncomplete
	default:
		return metrics.OutcomeFailure
	}
}
