package stores

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	StageTurn   = "turn"
	StageModel  = "model"
	StageTool   = "tool"
	StageImage  = "image"
	StageSpeech = "speech"

	StatusStart    = "start"
	StatusEnd      = "end"
	StatusError    = "error"
	StatusDegraded = "degraded"
	StatusSkipped  = "skipped"
)

// TurnRecorder collects trace events for one turn. It is safe for use by the
// media goroutines that finish after the turn returns.
type TurnRecorder struct {
	SessionID string
	TurnID    string

	mu     sync.Mutex
	start  time.Time
	traces []*TurnTrace
	now    func() time.Time
}

func NewTurnRecorder(sessionID string) *TurnRecorder {
	return &TurnRecorder{
		SessionID: sessionID,
		TurnID:    uuid.NewString(),
		start:     time.Now(),
		now:       time.Now,
	}
}

// Record appends an event and returns it. DurationMS is measured from the
// creation of the recorder.
func (r *TurnRecorder) Record(stage, status, label string, details map[string]any) *TurnTrace {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := r.now()
	trace := &TurnTrace{
		SessionID:  r.SessionID,
		TurnID:     r.TurnID,
		TraceID:    uuid.NewString(),
		Stage:      stage,
		Status:     status,
		Label:      label,
		Details:    details,
		Timestamp:  at.UnixMilli(),
		DurationMS: at.Sub(r.start).Milliseconds(),
	}
	if id, ok := details["tool_call_id"].(string); ok {
		trace.ToolCallID = id
	}
	r.traces = append(r.traces, trace)
	return trace
}

// Traces returns a copy of the events recorded so far.
func (r *TurnRecorder) Traces() []*TurnTrace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*TurnTrace, len(r.traces))
	copy(out, r.traces)
	return out
}
