package flightai

import (
	"context"
	"fmt"

	"github.com/Desarso/flightai/sessions"
	"github.com/sirupsen/logrus"
)

// Re-export session types so callers only need the root package
type Session = sessions.Session
type Turn = sessions.Turn
type WebSocketSession = sessions.WebSocketSession
type AgentError = sessions.AgentError
type Frame = sessions.Frame

// NewSession builds a session around agent with the media producers and
// trace store selected by cfg.
func NewSession(ctx context.Context, id string, agent *Agent, cfg *Config, logger logrus.FieldLogger) (*Session, error) {
	if agent == nil {
		return nil, fmt.Errorf("agent is nil")
	}
	images, err := NewImageSynthesizer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create image synthesizer: %w", err)
	}
	speaker, err := NewSpeaker(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create speaker: %w", err)
	}
	traces, err := NewTraceStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace store: %w", err)
	}
	return sessions.NewSession(id, agent, images, speaker, traces, logger), nil
}
