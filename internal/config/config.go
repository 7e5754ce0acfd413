// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/critiq-ai/critiq/internal/logger"
)

// Defaults applied when the environment does not override them. The prompt
// budget values mirror the limits the hosted model comfortably accepts.
const (
	DefaultProvider   = "gemini"
	DefaultModelName  = "gemini-1.5-flash"
	DefaultOllamaHost = "http://localhost:11434"
	DefaultServerPort = "8080"
	DefaultMaxFiles   = 10
	DefaultMaxChars   = 12000
	DefaultChunkSize  = 4000
	DefaultLLMTimeout = 2 * time.Minute
)

// Config holds the application's configuration values.
type Config struct {
	LLMProvider  string
	ModelName    string
	GeminiAPIKey string
	OllamaHost   string

	ServerPort string

	// Prompt budget: how much source text a single invocation may forward.
	MaxFiles   int
	MaxChars   int
	ChunkSize  int
	LLMTimeout time.Duration

	Logging logger.Config
}

// Load reads configuration from environment variables and an optional .env
// file, sets defaults, and validates provider requirements. Viper handles
// loading and precedence, as elsewhere in the project.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("LLM_PROVIDER", DefaultProvider)
	viper.SetDefault("MODEL_NAME", DefaultModelName)
	viper.SetDefault("OLLAMA_HOST", DefaultOllamaHost)
	viper.SetDefault("SERVER_PORT", DefaultServerPort)
	viper.SetDefault("MAX_FILES", DefaultMaxFiles)
	viper.SetDefault("MAX_CHARS", DefaultMaxChars)
	viper.SetDefault("CHUNK_SIZE", DefaultChunkSize)
	viper.SetDefault("LLM_TIMEOUT", DefaultLLMTimeout.String())
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stderr")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A missing .env is fine; a broken one is not fatal either, the
			// environment still wins. Unreadable files are surfaced below
			// through validation when required values are absent.
			_ = err
		}
	}

	cfg := &Config{
		LLMProvider:  viper.GetString("LLM_PROVIDER"),
		ModelName:    viper.GetString("MODEL_NAME"),
		GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
		OllamaHost:   viper.GetString("OLLAMA_HOST"),
		ServerPort:   viper.GetString("SERVER_PORT"),
		MaxFiles:     viper.GetInt("MAX_FILES"),
		MaxChars:     viper.GetInt("MAX_CHARS"),
		ChunkSize:    viper.GetInt("CHUNK_SIZE"),
		LLMTimeout:   viper.GetDuration("LLM_TIMEOUT"),
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks provider requirements and rejects nonsensical budgets.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY must be set for the gemini provider")
		}
	case "ollama":
		if c.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST must be set for the ollama provider")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}

	if c.MaxFiles <= 0 {
		return fmt.Errorf("MAX_FILES must be positive, got %d", c.MaxFiles)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.MaxChars < c.ChunkSize {
		return fmt.Errorf("MAX_CHARS (%d) must be at least CHUNK_SIZE (%d)", c.MaxChars, c.ChunkSize)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLMTimeout)
	}
	return nil
}
