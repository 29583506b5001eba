package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/Desarso/flightai/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// TurnRunner runs one turn over a visible history ending with a user message.
type TurnRunner interface {
	Run(ctx context.Context, history []models.Message) (models.TurnResult, error)
}

// AgentError represents errors that can occur during agent operations
type AgentError struct {
	Message string
	Fatal   bool
}

func (e *AgentError) Error() string {
	return e.Message
}

// Frame types sent to websocket clients, in order: text, then image or
// image_error when a city was resolved, then done.
const (
	FrameText       = "text"
	FrameImage      = "image"
	FrameImageError = "image_error"
	FrameError      = "error"
	FrameDone       = "done"
)

// Frame is one server-to-client websocket message.
type Frame struct {
	Type     string               `json:"type"`
	Text     string               `json:"text,omitempty"`
	History  []models.Message     `json:"history,omitempty"`
	Degraded bool                 `json:"degraded,omitempty"`
	Image    *models.ImagePayload `json:"image,omitempty"`
	Error    string               `json:"error,omitempty"`
	Fatal    bool                 `json:"fatal,omitempty"`
}

// WebSocketWriter serializes all writes to one connection.
type WebSocketWriter struct {
	Conn           *websocket.Conn
	Logger         logrus.FieldLogger
	StartTime      time.Time
	FirstFrameSent bool
	mu             sync.Mutex
}

// Begin marks the start of an interaction for latency logging.
func (w *WebSocketWriter) Begin() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.StartTime = time.Now()
	w.FirstFrameSent = false
}

func (w *WebSocketWriter) WriteResponse(frame Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.FirstFrameSent && !w.StartTime.IsZero() {
		w.FirstFrameSent = true
		w.Logger.Infof("Time to first frame: %v", time.Since(w.StartTime))
	}
	return w.Conn.WriteJSON(frame)
}

func (w *WebSocketWriter) WriteError(err *AgentError) error {
	return w.WriteResponse(Frame{Type: FrameError, Error: err.Message, Fatal: err.Fatal})
}

func (w *WebSocketWriter) WriteDone() error {
	return w.WriteResponse(Frame{Type: FrameDone})
}
