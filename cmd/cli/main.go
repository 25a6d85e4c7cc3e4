// Package main provides the CLI tool for the brandbook-service.
// Uses Cobra for command parsing.
//
// Run with: go run ./cmd/cli prompt --description "..." --image-url https://...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleveque/brandbook-service/internal/config"
	"github.com/fleveque/brandbook-service/internal/model"
	"github.com/fleveque/brandbook-service/internal/service"
	"github.com/fleveque/brandbook-service/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree:
// brandbook-cli prompt --description "..." --image-url URL [--image-url URL]
// brandbook-cli stats
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brandbook-cli",
		Short: "Brand book service CLI tools",
	}

	root.AddCommand(promptCmd())
	root.AddCommand(statsCmd())
	return root
}

func promptCmd() *cobra.Command {
	var description string
	var imageURLs []string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompts a generation request would send, without calling any provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd.OutOrStdout(), description, imageURLs)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Product description")
	cmd.Flags().StringArrayVar(&imageURLs, "image-url", nil, "Moodboard image URL (repeatable)")
	return cmd
}

func runPrompt(w io.Writer, description string, imageURLs []string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return service.ErrMissingDescription
	}
	if len(imageURLs) == 0 {
		return service.ErrMissingImages
	}

	input := model.BrandInput{Description: description}
	for i, u := range imageURLs {
		input.MoodboardImages = append(input.MoodboardImages, model.MoodboardImage{
			ID:  fmt.Sprintf("img-%d", i+1),
			URL: u,
		})
	}

	fmt.Fprintln(w, "=== SYSTEM ===")
	fmt.Fprintln(w, service.SystemPrompt)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== USER ===")
	fmt.Fprint(w, service.BuildBrandPrompt(input))
	return nil
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print counters from the LLM call log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd)
		},
	}
}

func runStats(cmd *cobra.Command) error {
	cfg, err := config.Load(os.Getenv("BRANDBOOK_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Storage.DatabasePath == "" {
		return errors.New("call log disabled: storage.database_path is empty")
	}
	if _, err := os.Stat(cfg.Storage.DatabasePath); err != nil {
		return fmt.Errorf("call log not found: %w", err)
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	stats, err := storage.NewLLMCallRepository(db).Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "total:  %d\n", stats.Total)
	fmt.Fprintf(w, "failed: %d\n", stats.Failed)
	fmt.Fprintf(w, "chat:   %d\n", stats.Chat)
	fmt.Fprintf(w, "image:  %d\n", stats.Image)
	return nil
}
