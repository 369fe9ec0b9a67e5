package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	// Addr is the HTTP listen address for `rosettasub serve`.
	Addr string

	// ScratchDir is where uploads and generated artifacts live. The server
	// sweeps it clean at startup.
	ScratchDir string

	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// TranscribeProvider selects the transcription backend (whisper,
	// openai). WhisperModel is the model size tag for the local backend.
	TranscribeProvider string
	WhisperModel       string

	// TranslateProvider selects the translation backend (gemini, openai,
	// anthropic).
	TranslateProvider string
	TranslateModel    string

	// PipelineTimeout bounds one request's media conversion, inference and
	// translation calls.
	PipelineTimeout time.Duration
}

// Load reads configuration from a .env file (if present) and the process
// environment. Environment variables win over defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:               getEnv("ROSETTASUB_ADDR", ":8000"),
		ScratchDir:         getEnv("ROSETTASUB_SCRATCH_DIR", "uploads"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		TranscribeProvider: getEnv("ROSETTASUB_TRANSCRIBE_PROVIDER", "whisper"),
		WhisperModel:       getEnv("ROSETTASUB_WHISPER_MODEL", "base"),
		TranslateProvider:  getEnv("ROSETTASUB_TRANSLATE_PROVIDER", "gemini"),
		TranslateModel:     os.Getenv("ROSETTASUB_TRANSLATE_MODEL"),
		PipelineTimeout:    10 * time.Minute,
	}

	if raw := os.Getenv("ROSETTASUB_PIPELINE_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf(
				"invalid ROSETTASUB_PIPELINE_TIMEOUT_SECONDS %q",
				raw,
			)
		}
		cfg.PipelineTimeout = time.Duration(seconds) * time.Second
	}

	if err := os.MkdirAll(cfg.ScratchDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return cfg, nil
}

// TranslateAPIKey returns the API key matching the configured translation
// provider.
func (c *Config) TranslateAPIKey() string {
	switch c.TranslateProvider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
