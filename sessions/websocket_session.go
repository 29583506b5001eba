package sessions

import (
	"context"
	"errors"

	"github.com/Desarso/flightai/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketSession drives a Session from one websocket connection. Each
// client message {"message": ...} is answered with a text frame, then an
// image or image_error frame when a city was resolved, then done.
type WebSocketSession struct {
	Session *Session
	Writer  *WebSocketWriter
	Logger  *logrus.Entry
}

// Serve reads messages until the client disconnects.
func (ws *WebSocketSession) Serve(ctx context.Context) {
	defer ws.Writer.Conn.Close()
	ws.Logger.Info("WebSocket session started")

	for {
		var req models.Chat_Request
		if err := ws.Writer.Conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ws.Logger.WithError(err).Warn("WebSocket read failed")
			}
			break
		}

		if err := ws.RunInteraction(ctx, req.Message); err != nil {
			var agentErr *AgentError
			if errors.As(err, &agentErr) && agentErr.Fatal {
				ws.Logger.WithError(err).Error("Fatal error, closing session")
				break
			}
			ws.Logger.WithError(err).Warn("Non-fatal error")
		}
	}

	ws.Logger.Info("WebSocket session ended")
}

// RunInteraction answers one message.
func (ws *WebSocketSession) RunInteraction(ctx context.Context, text string) error {
	ws.Writer.Begin()

	turn, err := ws.Session.Begin(ctx, text)
	if err != nil {
		var agentErr *AgentError
		if !errors.As(err, &agentErr) {
			agentErr = &AgentError{Message: err.Error()}
		}
		return ws.sendError(agentErr)
	}

	if err := ws.Writer.WriteResponse(Frame{
		Type:     FrameText,
		Text:     turn.Result.FinalText,
		History:  turn.Result.History,
		Degraded: turn.Result.Degraded,
	}); err != nil {
		return &AgentError{Message: "failed to write text frame: " + err.Error(), Fatal: true}
	}

	img, err := turn.WaitImage(ctx)
	switch {
	case err != nil:
		err = ws.Writer.WriteResponse(Frame{Type: FrameImageError, Error: err.Error()})
	case img != nil:
		err = ws.Writer.WriteResponse(Frame{Type: FrameImage, Image: ImagePayload(img)})
	}
	if err != nil {
		return &AgentError{Message: "failed to write image frame: " + err.Error(), Fatal: true}
	}

	if err := ws.Writer.WriteDone(); err != nil {
		return &AgentError{Message: "failed to write done frame: " + err.Error(), Fatal: true}
	}
	return nil
}

// sendError reports err to the client and returns it. A failed write makes
// the error fatal.
func (ws *WebSocketSession) sendError(err *AgentError) error {
	if writeErr := ws.Writer.WriteError(err); writeErr != nil {
		return &AgentError{Message: "failed to write error frame: " + writeErr.Error(), Fatal: true}
	}
	if !err.Fatal {
		if writeErr := ws.Writer.WriteDone(); writeErr != nil {
			return &AgentError{Message: "failed to write done frame: " + writeErr.Error(), Fatal: true}
		}
	}
	return err
}
