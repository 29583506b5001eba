package sessions

import (
	"github.com/Desarso/flightai/media"
	"github.com/Desarso/flightai/stores"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// NewSession creates an empty session. A blank id gets a generated one.
// images, speaker and traces may all be nil.
func NewSession(id string, agent TurnRunner, images media.ImageSynthesizer, speaker *media.Speaker, traces stores.TraceStore, logger logrus.FieldLogger) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Session{
		ID:      id,
		Agent:   agent,
		Images:  images,
		Speaker: speaker,
		Traces:  traces,
		Logger:  logger.WithField("session_id", id),
	}
}

// NewWebSocketSession binds a connection to session.
func NewWebSocketSession(conn *websocket.Conn, session *Session) *WebSocketSession {
	logger := session.Logger.WithField("transport", "ws")
	return &WebSocketSession{
		Session: session,
		Writer:  &WebSocketWriter{Conn: conn, Logger: logger},
		Logger:  logger,
	}
}
