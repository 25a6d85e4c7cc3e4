package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/middleware"
	"github.com/fleveque/brandbook-service/internal/service"
)

// Client-facing error messages. The JSON API and the HTML form show the same text.
const (
	msgMissingDescription = "Product description is required"
	msgMissingImages      = "At least one moodboard image is required"
	msgIncomplete         = "Generated brand book is incomplete"
	msgUpload             = "Failed to upload image"
	msgGeneration         = "Failed to generate brand book"
	msgTooLarge           = "Uploaded images are too large"
)

// errUploadTooLarge is returned when the request body exceeds the upload cap.
var errUploadTooLarge = errors.New("upload exceeds size limit")

// Generator runs the brand book pipeline. *service.Pipeline implements it.
type Generator interface {
	Run(ctx context.Context, req service.GenerateRequest) (*service.Result, error)
}

// GenerateHandler serves the JSON generation API.
type GenerateHandler struct {
	generator      Generator
	requestTimeout time.Duration
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewGenerateHandler creates a GenerateHandler. requestTimeout bounds the whole
// pipeline and maxUploadBytes the request body; zero disables either limit.
func NewGenerateHandler(generator Generator, requestTimeout time.Duration, maxUploadBytes int64, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		generator:      generator,
		requestTimeout: requestTimeout,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Generate builds a brand book from a multipart upload.
// Route: POST /api/generate (fields: description, images[])
func (h *GenerateHandler) Generate(c *gin.Context) {
	result, err := runGeneration(c, h.generator, h.requestTimeout, h.maxUploadBytes, h.logger)
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"brandBook": result.BrandBook})
}

// runGeneration reads the form, derives the pipeline context and runs it. Shared by
// the JSON and HTML endpoints.
func runGeneration(c *gin.Context, generator Generator, timeout time.Duration, maxUploadBytes int64, logger *zap.Logger) (*service.Result, error) {
	requestID := c.GetString(middleware.RequestIDKey)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	}
	req, err := requestFromForm(c)
	if err != nil {
		logger.Info("rejected generation request",
			zap.String("request_id", requestID),
			zap.Int64("max_upload_bytes", maxUploadBytes),
			zap.Error(err),
		)
		return nil, err
	}

	// A client that hangs up does not abort uploads or model calls already paid for;
	// only the ceiling does.
	ctx := context.WithoutCancel(c.Request.Context())
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx = service.WithRequestID(ctx, requestID)

	start := time.Now()
	result, err := generator.Run(ctx, req)
	if err != nil {
		if service.IsValidation(err) {
			logger.Info("rejected generation request",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		} else {
			logger.Error("brand book generation failed",
				zap.String("request_id", requestID),
				zap.Int("images", len(req.Images)),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	logger.Info("brand book generated",
		zap.String("request_id", requestID),
		zap.Int("images", len(req.Images)),
		zap.Int("logo_images", len(result.BrandBook.LogoImages)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// requestFromForm collects the description and image parts. Only an oversized body
// is an error here; other validation is left to the pipeline so both endpoints
// report the same errors.
func requestFromForm(c *gin.Context) (service.GenerateRequest, error) {
	// The multipart form is parsed first so the body is read once, under the cap.
	form, formErr := c.MultipartForm()
	if formErr != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(formErr, &tooLarge) {
			return service.GenerateRequest{}, fmt.Errorf("%w: %w", errUploadTooLarge, formErr)
		}
	}

	req := service.GenerateRequest{Description: c.PostForm("description")}
	if formErr != nil {
		return req, nil
	}
	for _, fh := range form.File["images"] {
		req.Images = append(req.Images, imageFileFromHeader(fh))
	}
	return req, nil
}

func imageFileFromHeader(fh *multipart.FileHeader) service.ImageFile {
	return service.ImageFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// errorResponse maps a pipeline error onto a status code and client message.
// Incomplete results are checked before generation failures since they wrap both.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge, msgTooLarge
	case errors.Is(err, service.ErrMissingDescription):
		return http.StatusBadRequest, msgMissingDescription
	case errors.Is(err, service.ErrMissingImages):
		return http.StatusBadRequest, msgMissingImages
	case errors.Is(err, service.ErrIncompleteResult):
		return http.StatusInternalServerError, msgIncomplete
	case errors.Is(err, service.ErrUpload):
		return http.StatusInternalServerError, msgUpload
	default:
		return http.StatusInternalServerError, msgGeneration
	}
}
