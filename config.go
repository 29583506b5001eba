package flightai

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"

	BackendNone       = "none"
	BackendOpenAI     = "openai"
	BackendGemini     = "gemini"
	BackendElevenLabs = "elevenlabs"
)

// Config holds everything needed to build an Agent and its media producers.
// Values come from FLIGHTAI_* environment variables, an optional config file
// and the provider key variables OPENAI_API_KEY, OPENROUTER_API_KEY,
// GEMINI_API_KEY and ELEVENLABS_API_KEY.
type Config struct {
	Provider      string
	ModelName     string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	OpenRouterAPIKey string

	ImageBackend string
	ImageModel   string
	GeminiAPIKey string

	SpeechBackend             string
	ElevenLabsAPIKey          string
	ElevenLabsVoiceID         string
	ElevenLabsModelID         string
	ElevenLabsLanguage        string
	ElevenLabsInactivityLimit time.Duration
	PlayerCommand             []string

	PricesFile  string
	HTTPTimeout time.Duration

	Addr      string
	LogLevel  string
	LogFormat string

	StoreType         string // empty disables turn tracing
	StoreConnection   string
	TraceRetention    time.Duration
	RetentionSchedule string
}

// NewConfig creates a configuration with default values
func NewConfig() *Config {
	return &Config{
		Provider:      ProviderOpenAI,
		ModelName:     "gpt-4o-mini",
		ImageBackend:  BackendOpenAI,
		SpeechBackend: BackendOpenAI,
		HTTPTimeout:   60 * time.Second,
		Addr:          ":8080",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// LoadConfig reads .env (if present) and then resolves every key through v.
// Pass nil to use a fresh viper instance.
func LoadConfig(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if v == nil {
		v = viper.New()
	}

	defaults := NewConfig()
	v.SetDefault("provider", defaults.Provider)
	v.SetDefault("model", defaults.ModelName)
	v.SetDefault("image_backend", defaults.ImageBackend)
	v.SetDefault("speech_backend", defaults.SpeechBackend)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)

	v.SetEnvPrefix("flightai")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"openai_api_key":     "OPENAI_API_KEY",
		"openrouter_api_key": "OPENROUTER_API_KEY",
		"gemini_api_key":     "GEMINI_API_KEY",
		"elevenlabs_api_key": "ELEVENLABS_API_KEY",
	} {
		if err := v.BindEnv(key, "FLIGHTAI_"+strings.ToUpper(key), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Provider:                  strings.ToLower(v.GetString("provider")),
		ModelName:                 v.GetString("model"),
		OpenAIAPIKey:              v.GetString("openai_api_key"),
		OpenAIBaseURL:             v.GetString("openai_base_url"),
		OpenRouterAPIKey:          v.GetString("openrouter_api_key"),
		ImageBackend:              strings.ToLower(v.GetString("image_backend")),
		ImageModel:                v.GetString("image_model"),
		GeminiAPIKey:              v.GetString("gemini_api_key"),
		SpeechBackend:             strings.ToLower(v.GetString("speech_backend")),
		ElevenLabsAPIKey:          v.GetString("elevenlabs_api_key"),
		ElevenLabsVoiceID:         v.GetString("elevenlabs_voice_id"),
		ElevenLabsModelID:         v.GetString("elevenlabs_model_id"),
		ElevenLabsLanguage:        v.GetString("elevenlabs_language"),
		ElevenLabsInactivityLimit: v.GetDuration("elevenlabs_inactivity_timeout"),
		PlayerCommand:             strings.Fields(v.GetString("player_command")),
		PricesFile:                v.GetString("prices_file"),
		HTTPTimeout:               v.GetDuration("http_timeout"),
		Addr:                      v.GetString("addr"),
		LogLevel:                  v.GetString("log_level"),
		LogFormat:                 v.GetString("log_format"),
		StoreType:                 strings.ToLower(v.GetString("store_type")),
		StoreConnection:           v.GetString("store_connection"),
		TraceRetention:            v.GetDuration("trace_retention"),
		RetentionSchedule:         v.GetString("retention_schedule"),
	}
	return cfg, nil
}

// Validate checks that every selected backend has its credentials.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %s", c.Provider)
		}
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for provider %s", c.Provider)
		}
	default:
		return fmt.Errorf("unsupported provider: %q", c.Provider)
	}

	switch c.ImageBackend {
	case BackendNone, "":
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for image backend %s", c.ImageBackend)
		}
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for image backend %s", c.ImageBackend)
		}
	default:
		return fmt.Errorf("unsupported image backend: %q", c.ImageBackend)
	}

	switch c.SpeechBackend {
	case BackendNone, "":
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for speech backend %s", c.SpeechBackend)
		}
	case BackendElevenLabs:
		if c.ElevenLabsAPIKey == "" || c.ElevenLabsVoiceID == "" {
			return fmt.Errorf("ELEVENLABS_API_KEY and FLIGHTAI_ELEVENLABS_VOICE_ID are required for speech backend %s", c.SpeechBackend)
		}
	default:
		return fmt.Errorf("unsupported speech backend: %q", c.SpeechBackend)
	}

	switch c.StoreType {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported store type: %q", c.StoreType)
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative")
	}
	if c.PricesFile != "" {
		if _, err := os.Stat(c.PricesFile); err != nil {
			return fmt.Errorf("prices file: %w", err)
		}
	}
	return nil
}

// WithProvider sets the chat model provider and model name
func (c *Config) WithProvider(provider, model string) *Config {
	c.Provider = provider
	c.ModelName = model
	return c
}

// WithOpenAI sets the OpenAI credentials; baseURL may be empty
func (c *Config) WithOpenAI(apiKey, baseURL string) *Config {
	c.OpenAIAPIKey = apiKey
	c.OpenAIBaseURL = baseURL
	return c
}

// WithImageBackend selects the image backend ("openai", "gemini" or "none")
func (c *Config) WithImageBackend(backend string) *Config {
	c.ImageBackend = backend
	return c
}

// WithSpeechBackend selects the speech backend ("openai", "elevenlabs" or "none")
func (c *Config) WithSpeechBackend(backend string) *Config {
	c.SpeechBackend = backend
	return c
}

// WithPricesFile loads ticket prices from a YAML file instead of the built-in table
func (c *Config) WithPricesFile(path string) *Config {
	c.PricesFile = path
	return c
}

// WithSQLiteTraces records turn traces in a SQLite database at path
func (c *Config) WithSQLiteTraces(path string) *Config {
	c.StoreType = "sqlite"
	c.StoreConnection = path
	return c
}

// WithPostgresTraces records turn traces in PostgreSQL
func (c *Config) WithPostgresTraces(dsn string) *Config {
	c.StoreType = "postgres"
	c.StoreConnection = dsn
	return c
}
