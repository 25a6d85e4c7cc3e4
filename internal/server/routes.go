// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/config"
	"github.com/fleveque/brandbook-service/internal/handler"
	"github.com/fleveque/brandbook-service/internal/middleware"
	"github.com/fleveque/brandbook-service/internal/storage"
)

// Deps holds the services the handlers need. Dependencies are passed explicitly;
// each handler gets exactly what it uses.
type Deps struct {
	Generator handler.Generator
	// CallRepo is nil when the call log is disabled.
	CallRepo storage.LLMCallRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	timeout := cfg.Server.RequestTimeout
	maxUpload := cfg.Server.MaxUploadMB << 20

	healthHandler := handler.NewHealthHandler()
	generateHandler := handler.NewGenerateHandler(deps.Generator, timeout, maxUpload, logger)
	pageHandler := handler.NewPageHandler(deps.Generator, timeout, maxUpload, logger)
	statsHandler := handler.NewStatsHandler(deps.CallRepo, logger)

	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Server-rendered pages
	r.GET("/", pageHandler.Index)
	r.POST("/generate", pageHandler.Generate)

	// CORS applies to the JSON API only; the pages are same-origin.
	api := r.Group("/api")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	{
		api.POST("/generate", generateHandler.Generate)
		api.OPTIONS("/generate", func(c *gin.Context) {})
		api.GET("/stats", statsHandler.Stats)
	}
}
