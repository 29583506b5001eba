package media

import (
	"context"

	eleven_tts "github.com/Desarso/flightai/elevenlabs/tts/multi"
)

// ElevenLabsSpeech synthesizes audio over the ElevenLabs multi-context
// websocket. A new connection is opened per utterance.
type ElevenLabsSpeech struct {
	Config eleven_tts.ConnectConfig
}

func (e *ElevenLabsSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cfg := e.Config
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = eleven_tts.DefaultOutputFormat
	}
	return eleven_tts.Synthesize(ctx, cfg, text)
}
