package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// ErrSpeechSynthesis marks every failure recorded in a SpeechOutcome. It is
// never returned past Speaker.Speak.
var ErrSpeechSynthesis = errors.New("speech synthesis failed")

// SpeechSynthesizer converts text to encoded audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SpeechStage names how far Speak got.
type SpeechStage string

const (
	StageSkipped   SpeechStage = "skipped"
	StageSynthesis SpeechStage = "synthesis"
	StageDecode    SpeechStage = "decode"
	StagePlayback  SpeechStage = "playback"
	StageDone      SpeechStage = "done"
)

// SpeechOutcome reports what happened to one Speak call. Err is nil only when
// Stage is StageDone or StageSkipped.
type SpeechOutcome struct {
	Stage    SpeechStage
	Err      error
	MimeType string
	Bytes    int
	Duration time.Duration
}

func (o SpeechOutcome) OK() bool { return o.Err == nil }

// Speaker synthesizes text and plays it on the host.
type Speaker struct {
	Synthesizer SpeechSynthesizer
	Player      Player
	TempDir     string // defaults to os.TempDir()
	Logger      logrus.FieldLogger
}

// Speak renders text as audio. It never fails: every error, including a
// panic in a collaborator, is logged and reported in the outcome.
func (s *Speaker) Speak(ctx context.Context, text string) (outcome SpeechOutcome) {
	start := time.Now()
	logger := s.logger()

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("%w: panic during %s: %v", ErrSpeechSynthesis, outcome.Stage, r)
		}
		outcome.Duration = time.Since(start)
		if outcome.Err != nil {
			logger.WithError(outcome.Err).WithField("stage", outcome.Stage).Warn("Error in text-to-speech")
		}
	}()

	if strings.TrimSpace(text) == "" || s.Synthesizer == nil {
		return SpeechOutcome{Stage: StageSkipped}
	}

	outcome.Stage = StageSynthesis
	audio, err := s.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrSpeechSynthesis, err)
		return outcome
	}
	outcome.Bytes = len(audio)

	outcome.Stage = StageDecode
	if len(audio) == 0 {
		outcome.Err = fmt.Errorf("%w: empty audio", ErrSpeechSynthesis)
		return outcome
	}
	mime := mimetype.Detect(audio)
	outcome.MimeType = mime.String()
	if !strings.HasPrefix(mime.String(), "audio/") {
		outcome.Err = fmt.Errorf("%w: synthesized data is %s, not audio", ErrSpeechSynthesis, mime.String())
		return outcome
	}

	if s.Player == nil {
		outcome.Stage = StageDone
		return outcome
	}

	outcome.Stage = StagePlayback
	if err := s.play(ctx, audio, mime.Extension()); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrSpeechSynthesis, err)
		return outcome
	}

	outcome.Stage = StageDone
	return outcome
}

// play writes audio to a temp file for the player and removes it afterwards.
func (s *Speaker) play(ctx context.Context, audio []byte, ext string) error {
	f, err := os.CreateTemp(s.TempDir, "flightai-speech-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp audio file: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger().Warnf("Failed to remove temp audio file %s: %v", path, err)
		}
	}()

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp audio file: %w", err)
	}
	return s.Player.Play(ctx, path)
}

func (s *Speaker) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
