// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults, merged in priority order.
// A .env file, when present, is loaded into the process environment first so local
// development can keep provider secrets out of config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration struct.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Uploads    UploadsConfig    `mapstructure:"uploads"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// RequestTimeout is the ceiling for one generation request, uploads and
	// model calls included.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// MaxUploadMB caps the whole generation request body; zero means no cap.
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
	// UploadPrefix overrides the API host, mostly for tests.
	UploadPrefix string        `mapstructure:"upload_prefix"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	// ProviderOrder controls which chat providers generate the brand book and in what order.
	// A single entry means no fallback. Example: ["openai", "anthropic"]
	ProviderOrder   []string        `mapstructure:"provider_order"`
	OpenAI          OpenAIConfig    `mapstructure:"openai"`
	Anthropic       AnthropicConfig `mapstructure:"anthropic"`
	ImagesPerMinute int             `mapstructure:"images_per_minute"`
	LogoCount       int             `mapstructure:"logo_count"`
	Timeout         time.Duration   `mapstructure:"timeout"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	ImageModel string `mapstructure:"image_model"`
	BaseURL    string `mapstructure:"base_url"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type UploadsConfig struct {
	// MaxDimension downscales moodboard images whose longest side exceeds it.
	// Zero uploads the bytes untouched.
	MaxDimension int `mapstructure:"max_dimension"`
}

type StorageConfig struct {
	// DatabasePath is the SQLite file for the LLM call log. Empty disables it.
	DatabasePath string `mapstructure:"database_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// secretEnv maps config keys to the conventional environment variable names the
// providers document, so an existing .env works without the BRANDBOOK_ prefix.
var secretEnv = map[string]string{
	"cloudinary.cloud_name": "CLOUDINARY_CLOUD_NAME",
	"cloudinary.api_key":    "CLOUDINARY_API_KEY",
	"cloudinary.api_secret": "CLOUDINARY_API_SECRET",
	"llm.openai.api_key":    "OPENAI_API_KEY",
	"llm.anthropic.api_key": "ANTHROPIC_API_KEY",
}

// Load reads configuration from a YAML file and environment variables.
// Missing secrets are not an error here: each client fails on first use instead.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", 5*time.Minute)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cloudinary.folder", "slopkit-moodboards")
	v.SetDefault("cloudinary.timeout", 60*time.Second)
	v.SetDefault("llm.provider_order", []string{"openai"})
	v.SetDefault("llm.openai.model", "gpt-4o")
	v.SetDefault("llm.openai.image_model", "dall-e-3")
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.images_per_minute", 15)
	v.SetDefault("llm.logo_count", 3)
	v.SetDefault("llm.timeout", 2*time.Minute)
	v.SetDefault("uploads.max_dimension", 0)
	v.SetDefault("storage.database_path", "./storage/brandbook.db")
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Only a search that finds no file is tolerated: defaults + env are enough then.
	// A file that exists but does not parse is always an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// BRANDBOOK_ prefix + nested keys: BRANDBOOK_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("BRANDBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range secretEnv {
		prefixed := "BRANDBOOK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
