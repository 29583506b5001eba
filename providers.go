package flightai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Desarso/flightai/common_tools"
	eleven_tts "github.com/Desarso/flightai/elevenlabs/tts/multi"
	"github.com/Desarso/flightai/media"
	"github.com/Desarso/flightai/models/openai"
	"github.com/Desarso/flightai/models/openrouter"
	"github.com/Desarso/flightai/pricing"
	"github.com/Desarso/flightai/stores"
	"github.com/sirupsen/logrus"
)

// HTTPClient returns a client honoring the configured timeout.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.HTTPTimeout}
}

// NewModel builds the chat model for the configured provider.
func NewModel(cfg *Config) (Model, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		client := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.HTTPClient())
		return openai.New(client, cfg.ModelName), nil
	case ProviderOpenRouter:
		return &openrouter.OpenRouter_Model{
			Model:      cfg.ModelName,
			APIKey:     cfg.OpenRouterAPIKey,
			SiteName:   "FlightAI",
			HTTPClient: cfg.HTTPClient(),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %q", cfg.Provider)
	}
}

// NewPriceTable returns the YAML table at cfg.PricesFile, or the built-in one.
func NewPriceTable(cfg *Config) (*pricing.Table, error) {
	if cfg.PricesFile == "" {
		return pricing.DefaultTable(), nil
	}
	return pricing.LoadFile(cfg.PricesFile)
}

// NewAgent wires the model and the ticket price tool into an Agent.
func NewAgent(cfg *Config, logger logrus.FieldLogger) (*Agent, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	table, err := NewPriceTable(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	if logger != nil {
		logger.Debugf("Loaded %d ticket prices", table.Len())
	}
	registry, err := common_tools.NewRegistry(common_tools.TicketPriceTool(table))
	if err != nil {
		return nil, err
	}
	if logger != nil {
		registry.Logger = logger
	}

	agent := Create_Agent(model, registry)
	if logger != nil {
		agent.Logger = logger
	}
	return &agent, nil
}

// NewImageSynthesizer returns nil when images are disabled.
func NewImageSynthesizer(ctx context.Context, cfg *Config) (media.ImageSynthesizer, error) {
	switch cfg.ImageBackend {
	case BackendNone, "":
		return nil, nil
	case BackendOpenAI:
		return &media.OpenAIImages{
			Client:     openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.HTTPClient()),
			Model:      cfg.ImageModel,
			HTTPClient: cfg.HTTPClient(),
		}, nil
	case BackendGemini:
		images, err := media.NewGeminiImages(ctx, cfg.GeminiAPIKey, cfg.ImageModel)
		if err != nil {
			return nil, err
		}
		return images, nil
	default:
		return nil, fmt.Errorf("unsupported image backend: %q", cfg.ImageBackend)
	}
}

// NewSpeaker returns a speaker for the configured backend. With speech
// disabled the speaker has no synthesizer and every Speak is skipped.
func NewSpeaker(cfg *Config, logger logrus.FieldLogger) (*media.Speaker, error) {
	speaker := &media.Speaker{
		Player: &media.CommandPlayer{Command: cfg.PlayerCommand},
		Logger: logger,
	}
	switch cfg.SpeechBackend {
	case BackendNone, "":
	case BackendOpenAI:
		speaker.Synthesizer = &media.OpenAISpeech{
			Client: openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.HTTPClient()),
		}
	case BackendElevenLabs:
		speaker.Synthesizer = &media.ElevenLabsSpeech{Config: eleven_tts.ConnectConfig{
			APIKey:            cfg.ElevenLabsAPIKey,
			VoiceID:           cfg.ElevenLabsVoiceID,
			ModelID:           cfg.ElevenLabsModelID,
			LanguageCode:      cfg.ElevenLabsLanguage,
			InactivityTimeout: cfg.ElevenLabsInactivityLimit,
		}}
	default:
		return nil, fmt.Errorf("unsupported speech backend: %q", cfg.SpeechBackend)
	}
	return speaker, nil
}

// NewTraceStore returns nil when tracing is disabled.
func NewTraceStore(cfg *Config) (stores.TraceStore, error) {
	if cfg.StoreType == "" {
		return nil, nil
	}
	store, err := stores.NewTraceStore(stores.NewStoreConfig(cfg.StoreType, cfg.StoreConnection))
	if err != nil {
		return nil, err
	}
	return store, nil
}
