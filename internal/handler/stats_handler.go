package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/model"
	"github.com/fleveque/brandbook-service/internal/storage"
)

const recentCallsLimit = 20

// StatsHandler reports on the LLM call log.
type StatsHandler struct {
	callRepo storage.LLMCallRepository
	logger   *zap.Logger
}

// NewStatsHandler creates a StatsHandler. A nil repository means the call log is
// disabled and the endpoint answers 503.
func NewStatsHandler(callRepo storage.LLMCallRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		callRepo: callRepo,
		logger:   logger,
	}
}

// Stats returns call counters and the most recent calls. With a request_id query
// parameter it returns the calls made for that generation request instead.
// Route: GET /api/stats[?request_id=]
func (h *StatsHandler) Stats(c *gin.Context) {
	if h.callRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "call log disabled"})
		return
	}

	ctx := c.Request.Context()

	if requestID := c.Query("request_id"); requestID != "" {
		calls, err := h.callRepo.ListByRequest(ctx, requestID)
		if err != nil {
			h.logger.Error("listing calls for request", zap.String("request_id", requestID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if calls == nil {
			calls = []model.LLMCall{}
		}
		c.JSON(http.StatusOK, gin.H{"requestId": requestID, "calls": calls})
		return
	}

	stats, err := h.callRepo.Stats(ctx)
	if err != nil {
		h.logger.Error("reading call stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	recent, err := h.callRepo.ListRecent(ctx, recentCallsLimit)
	if err != nil {
		h.logger.Error("listing recent calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  stats.Total,
		"failed": stats.Failed,
		"chat":   stats.Chat,
		"image":  stats.Image,
		"recent": recent,
	})
}
