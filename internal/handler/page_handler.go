package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pageTitle = "Brand Book Generator"

// PageHandler serves the server-rendered upload form and report.
// The engine must have the web templates loaded.
type PageHandler struct {
	generator      Generator
	requestTimeout time.Duration
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewPageHandler(generator Generator, requestTimeout time.Duration, maxUploadBytes int64, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		generator:      generator,
		requestTimeout: requestTimeout,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Index renders the empty upload form.
// Route: GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": pageTitle})
}

// Generate runs the pipeline and renders the report, or the form again with the
// error message and the description the user typed.
// Route: POST /generate
func (h *PageHandler) Generate(c *gin.Context) {
	result, err := runGeneration(c, h.generator, h.requestTimeout, h.maxUploadBytes, h.logger)
	if err != nil {
		status, msg := errorResponse(err)
		c.HTML(status, "index.html", gin.H{
			"Title":       pageTitle,
			"Error":       msg,
			"Description": c.PostForm("description"),
		})
		return
	}

	title := pageTitle
	if result.BrandBook.Name != "" {
		title = result.BrandBook.Name + " · Brand Book"
	}
	c.HTML(http.StatusOK, "brandbook.html", gin.H{
		"Title":     title,
		"Book":      result.BrandBook,
		"Moodboard": result.MoodboardImages,
	})
}
