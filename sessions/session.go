// Package sessions is the presentation boundary: an in-memory conversation
// plus the HTTP and websocket surfaces that drive it.
package sessions

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Desarso/flightai/media"
	"github.com/Desarso/flightai/models"
	"github.com/Desarso/flightai/stores"
	"github.com/sirupsen/logrus"
)

// Session holds one visible conversation. Turns are serialized; history is
// kept in memory only.
type Session struct {
	ID      string
	Agent   TurnRunner
	Images  media.ImageSynthesizer
	Speaker *media.Speaker
	Traces  stores.TraceStore
	Logger  *logrus.Entry

	turnMu  sync.Mutex
	mu      sync.RWMutex
	history []models.Message
	speech  sync.WaitGroup
}

// Turn is a finished text answer whose image may still be rendering.
type Turn struct {
	Result models.TurnResult
	TurnID string
	image  chan imageOutcome
}

type imageOutcome struct {
	image *media.Image
	err   error
}

// WaitImage blocks until the image for this turn is ready. It returns
// (nil, nil) when the turn resolved no city or images are disabled.
func (t *Turn) WaitImage(ctx context.Context) (*media.Image, error) {
	if t.image == nil {
		return nil, nil
	}
	select {
	case out := <-t.image:
		return out.image, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit runs a turn and waits for its image. An image failure is logged and
// yields a nil image; only model failures are returned as errors.
func (s *Session) Submit(ctx context.Context, userText string) ([]models.Message, *media.Image, error) {
	turn, err := s.Begin(ctx, userText)
	if err != nil {
		return nil, nil, err
	}
	// Image failures were already logged and traced.
	img, _ := turn.WaitImage(ctx)
	return turn.Result.History, img, nil
}

// Begin runs the text part of a turn and starts the media producers. It
// returns as soon as the answer is final; speech never delays it.
func (s *Session) Begin(ctx context.Context, userText string) (*Turn, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, &AgentError{Message: "message must not be empty"}
	}
	if s.Agent == nil {
		return nil, &AgentError{Message: "session has no agent", Fatal: true}
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	rec := stores.NewTurnRecorder(s.ID)
	logger := s.Logger.WithField("turn_id", rec.TurnID)
	rec.Record(stores.StageTurn, stores.StatusStart, userText, nil)

	history := append(s.History(), models.UserMessage(userText))
	result, err := s.Agent.Run(ctx, history)
	if err != nil {
		rec.Record(stores.StageModel, stores.StatusError, err.Error(), nil)
		s.saveTraces(logger, rec.Traces())
		logger.WithError(err).Error("Turn failed")
		return nil, fmt.Errorf("turn failed: %w", err)
	}

	s.mu.Lock()
	s.history = result.History
	s.mu.Unlock()

	switch {
	case result.Degraded:
		rec.Record(stores.StageTool, stores.StatusDegraded, result.FinalText, nil)
	case result.HasCity():
		rec.Record(stores.StageTool, stores.StatusEnd, "get_ticket_price", map[string]any{"city": result.ResolvedCity})
	}
	rec.Record(stores.StageModel, stores.StatusEnd, "answer", map[string]any{"chars": len(result.FinalText)})
	s.saveTraces(logger, rec.Traces())

	turn := &Turn{Result: result, TurnID: rec.TurnID}
	if result.HasCity() && s.Images != nil {
		turn.image = make(chan imageOutcome, 1)
		go s.renderImage(context.WithoutCancel(ctx), logger, rec, result.ResolvedCity, turn.image)
	}
	if s.Speaker != nil {
		s.speech.Add(1)
		go s.speak(context.WithoutCancel(ctx), rec, result.FinalText)
	}
	return turn, nil
}

func (s *Session) renderImage(ctx context.Context, logger *logrus.Entry, rec *stores.TurnRecorder, city string, out chan<- imageOutcome) {
	var img *media.Image
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: panic: %v", media.ErrImageGeneration, r)
			}
		}()
		img, err = s.Images.Synthesize(ctx, city)
		return err
	}()

	if err != nil {
		logger.WithError(err).Warnf("Image generation for %s failed", city)
		s.saveTrace(logger, rec.Record(stores.StageImage, stores.StatusError, err.Error(), map[string]any{"city": city}))
		out <- imageOutcome{err: err}
		return
	}
	s.saveTrace(logger, rec.Record(stores.StageImage, stores.StatusEnd, img.MimeType, map[string]any{"city": city, "bytes": len(img.Data)}))
	out <- imageOutcome{image: img}
}

func (s *Session) speak(ctx context.Context, rec *stores.TurnRecorder, text string) {
	defer s.speech.Done()
	outcome := s.Speaker.Speak(ctx, text)

	status := stores.StatusEnd
	label := string(outcome.Stage)
	switch {
	case outcome.Err != nil:
		status = stores.StatusError
		label = outcome.Err.Error()
	case outcome.Stage == media.StageSkipped:
		status = stores.StatusSkipped
	}
	s.saveTrace(s.Logger, rec.Record(stores.StageSpeech, status, label, map[string]any{
		"stage":       string(outcome.Stage),
		"bytes":       outcome.Bytes,
		"duration_ms": outcome.Duration.Milliseconds(),
	}))
}

// WaitSpeech blocks until every started utterance has finished.
func (s *Session) WaitSpeech() {
	s.speech.Wait()
}

// History returns a copy of the visible transcript.
func (s *Session) History() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Clear empties the transcript. It waits for a turn in flight to finish.
func (s *Session) Clear() {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	s.Logger.Info("History cleared")
}

func (s *Session) saveTraces(logger logrus.FieldLogger, traces []*stores.TurnTrace) {
	if s.Traces == nil {
		return
	}
	if err := s.Traces.SaveTraces(traces); err != nil {
		logger.WithError(err).Warn("Failed to save turn traces")
	}
}

func (s *Session) saveTrace(logger logrus.FieldLogger, trace *stores.TurnTrace) {
	if s.Traces == nil {
		return
	}
	if err := s.Traces.SaveTrace(trace); err != nil {
		logger.WithError(err).Warn("Failed to save turn trace")
	}
}
