package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/config"
	"github.com/fleveque/brandbook-service/internal/middleware"
	"github.com/fleveque/brandbook-service/web"
)

// writeMargin is added to the request ceiling so a pipeline that hits its deadline
// still has time to write the error response.
const writeMargin = 30 * time.Second

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	logger *zap.Logger
	http   *http.Server
}

// New creates and configures a new Server.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Server, error) {
	// Set Gin mode based on log level
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Recovery middleware catches panics and returns 500 instead of crashing.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	RegisterRoutes(router, cfg, deps, logger)

	writeTimeout := 60 * time.Second
	if cfg.Server.RequestTimeout > 0 {
		writeTimeout = cfg.Server.RequestTimeout + writeMargin
	}

	s := &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:    cfg.Server.Address(),
			Handler: router,
			// Multipart bodies with several images take a while on slow links.
			ReadTimeout:  2 * time.Minute,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}

	return s, nil
}

// Start begins listening for HTTP requests. This blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("address", s.cfg.Server.Address()))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.http.Shutdown(ctx)
}

// Router returns the underlying Gin engine (useful for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}
