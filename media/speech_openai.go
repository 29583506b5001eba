package media

import (
	"context"
	"fmt"
	"io"

	openaisdk "github.com/sashabaranov/go-openai"
)

// OpenAISpeech synthesizes mp3 audio with the OpenAI speech endpoint.
type OpenAISpeech struct {
	Client *openaisdk.Client
	Model  string // defaults to tts-1
	Voice  string // defaults to alloy
}

func (o *OpenAISpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if o.Client == nil {
		return nil, fmt.Errorf("openai client is nil")
	}
	model := openaisdk.SpeechModel(o.Model)
	if model == "" {
		model = openaisdk.TTSModel1
	}
	voice := openaisdk.SpeechVoice(o.Voice)
	if voice == "" {
		voice = openaisdk.VoiceAlloy
	}

	resp, err := o.Client.CreateSpeech(ctx, openaisdk.CreateSpeechRequest{
		Model:          model,
		Input:          text,
		Voice:          voice,
		ResponseFormat: openaisdk.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	return audio, nil
}
