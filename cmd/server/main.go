// Package main is the entry point for the brandbook-service HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fleveque/brandbook-service/internal/config"
	"github.com/fleveque/brandbook-service/internal/imagestore"
	"github.com/fleveque/brandbook-service/internal/llm"
	"github.com/fleveque/brandbook-service/internal/server"
	"github.com/fleveque/brandbook-service/internal/service"
	"github.com/fleveque/brandbook-service/internal/storage"
)

func main() {
	// run() is separate so deferred cleanup executes before os.Exit.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("BRANDBOOK_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; the error is not actionable.
	defer func() { _ = logger.Sync() }()

	var recorder service.CallRecorder
	var deps server.Deps
	if cfg.Storage.DatabasePath != "" {
		db, err := openCallLog(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := storage.NewLLMCallRepository(db)
		recorder = repo
		deps.CallRepo = repo
	} else {
		logger.Info("call log disabled")
	}

	clients, err := buildChatClients(cfg)
	if err != nil {
		return err
	}
	imager := llm.NewOpenAIClient(openAIOptions(cfg))

	// Missing provider or host credentials are reported here but only fail the first
	// request that needs them.
	if cfg.LLM.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; generation requests will fail")
	}
	if cfg.Cloudinary.CloudName == "" || cfg.Cloudinary.APIKey == "" || cfg.Cloudinary.APISecret == "" {
		logger.Warn("Cloudinary credentials are not set; uploads will fail")
	}

	store := imagestore.NewCloudinary(imagestore.CloudinaryOptions{
		CloudName:    cfg.Cloudinary.CloudName,
		APIKey:       cfg.Cloudinary.APIKey,
		APISecret:    cfg.Cloudinary.APISecret,
		Folder:       cfg.Cloudinary.Folder,
		UploadPrefix: cfg.Cloudinary.UploadPrefix,
		Timeout:      cfg.Cloudinary.Timeout,
	})

	generator := service.NewBrandGenerator(clients, imager, cfg.LLM.ImagesPerMinute, recorder, logger)
	deps.Generator = service.NewPipeline(
		store,
		imagestore.NewEncoder(cfg.Uploads.MaxDimension),
		generator,
		cfg.LLM.LogoCount,
		logger,
	)

	srv, err := server.New(cfg, deps, logger)
	if err != nil {
		return err
	}

	// Graceful shutdown: listen for SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// In-flight generations can take minutes; give them the full request ceiling.
	grace := cfg.Server.RequestTimeout
	if grace <= 0 {
		grace = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	return srv.Shutdown(ctx)
}

func openCallLog(path string) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func openAIOptions(cfg *config.Config) llm.OpenAIOptions {
	return llm.OpenAIOptions{
		APIKey:     cfg.LLM.OpenAI.APIKey,
		Model:      cfg.LLM.OpenAI.Model,
		ImageModel: cfg.LLM.OpenAI.ImageModel,
		BaseURL:    cfg.LLM.OpenAI.BaseURL,
		Timeout:    cfg.LLM.Timeout,
	}
}

// buildChatClients creates the chat providers in the configured order.
func buildChatClients(cfg *config.Config) ([]llm.Client, error) {
	clients := make([]llm.Client, 0, len(cfg.LLM.ProviderOrder))
	for _, name := range cfg.LLM.ProviderOrder {
		switch name {
		case "openai":
			clients = append(clients, llm.NewOpenAIClient(openAIOptions(cfg)))
		case "anthropic":
			clients = append(clients, llm.NewAnthropicClient(llm.AnthropicOptions{
				APIKey:  cfg.LLM.Anthropic.APIKey,
				Model:   cfg.LLM.Anthropic.Model,
				BaseURL: cfg.LLM.Anthropic.BaseURL,
				Timeout: cfg.LLM.Timeout,
			}))
		default:
			return nil, fmt.Errorf("unknown LLM provider %q", name)
		}
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("llm.provider_order is empty")
	}
	return clients, nil
}
