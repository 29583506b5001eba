package multi

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// DefaultOutputFormat is mp3 so the result can be sniffed and played as a file.
const DefaultOutputFormat = "mp3_44100_128"

// Synthesize renders text in a fresh context on a fresh connection and
// returns the concatenated audio once the server marks the context final.
func Synthesize(ctx context.Context, cfg ConnectConfig, text string) ([]byte, error) {
	c, err := Dial(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	contextID := "ctx_" + uuid.NewString()
	if err := c.InitializeContext(ctx, contextID); err != nil {
		return nil, err
	}
	if err := c.SendText(ctx, contextID, text, true); err != nil {
		return nil, err
	}
	if err := c.CloseContext(ctx, contextID); err != nil {
		return nil, err
	}

	var audio bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-c.Events():
			if !ok {
				if err := c.Err(); err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("tts: connection closed before context %s was final", contextID)
			}
			if msg.ContextID != "" && msg.ContextID != contextID {
				continue
			}
			switch msg.Kind {
			case "audio":
				chunk, err := base64.StdEncoding.DecodeString(msg.AudioB64)
				if err != nil {
					return nil, fmt.Errorf("tts: invalid audio chunk: %w", err)
				}
				audio.Write(chunk)
			case "final":
				if audio.Len() == 0 {
					return nil, fmt.Errorf("tts: no audio received")
				}
				return audio.Bytes(), nil
			}
		}
	}
}
