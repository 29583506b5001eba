package sessions

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Desarso/flightai/media"
	"github.com/Desarso/flightai/models"
	"github.com/Desarso/flightai/stores"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	mp3Bytes = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...)
)

// fakeAgent answers every turn with answer and optionally a resolved city.
type fakeAgent struct {
	answer string
	city   string
	err    error
	delay  time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
}

func (f *fakeAgent) Run(ctx context.Context, history []models.Message) (models.TurnResult, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(f.delay)

	if f.err != nil {
		return models.TurnResult{}, f.err
	}
	updated := append(append([]models.Message{}, history...), models.AssistantMessage(f.answer))
	return models.TurnResult{History: updated, FinalText: f.answer, ResolvedCity: f.city}, nil
}

type fakeImages struct {
	err   error
	calls atomic.Int32
}

func (f *fakeImages) Synthesize(ctx context.Context, city string) (*media.Image, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &media.Image{Data: pngBytes, MimeType: "image/png", SourceURL: "https://img.example/" + city}, nil
}

type fakeSpeech struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return mp3Bytes, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestSubmitWithCity(t *testing.T) {
	agent := &fakeAgent{answer: "A return ticket to Tokyo costs $1400.", city: "Tokyo"}
	images := &fakeImages{}
	speech := &fakeSpeech{}
	session := NewSession("s1", agent, images, &media.Speaker{Synthesizer: speech}, nil, quietLogger())

	history, img, err := session.Submit(context.Background(), "How much to Tokyo?")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, []models.Message{
		models.UserMessage("How much to Tokyo?"),
		models.AssistantMessage("A return ticket to Tokyo costs $1400."),
	}, history)
	assert.Equal(t, history, session.History())

	session.WaitSpeech()
	assert.Equal(t, []string{"A return ticket to Tokyo costs $1400."}, speech.texts)
}

func TestSubmitWithoutCitySkipsImage(t *testing.T) {
	agent := &fakeAgent{answer: "Hello! How can I help?"}
	images := &fakeImages{}
	session := NewSession("", agent, images, nil, nil, quietLogger())
	assert.NotEmpty(t, session.ID)

	_, img, err := session.Submit(context.Background(), "Hi")
	require.NoError(t, err)
	assert.Nil(t, img)
	assert.Equal(t, int32(0), images.calls.Load())
}

func TestSubmitImageFailureIsNotAnError(t *testing.T) {
	agent := &fakeAgent{answer: "Paris is $899.", city: "Paris"}
	images := &fakeImages{err: errors.New("content policy")}
	session := NewSession("s", agent, images, nil, nil, quietLogger())

	history, img, err := session.Submit(context.Background(), "Paris?")
	require.NoError(t, err)
	assert.Nil(t, img)
	assert.Len(t, history, 2)
}

func TestSubmitAgentFailureKeepsHistory(t *testing.T) {
	agent := &fakeAgent{answer: "first"}
	session := NewSession("s", agent, nil, nil, nil, quietLogger())

	_, _, err := session.Submit(context.Background(), "one")
	require.NoError(t, err)

	agent.err = errors.New("upstream 500")
	_, _, err = session.Submit(context.Background(), "two")
	require.Error(t, err)
	assert.Len(t, session.History(), 2)
}

func TestSubmitRejectsBlankMessage(t *testing.T) {
	agent := &fakeAgent{answer: "x"}
	session := NewSession("s", agent, nil, nil, nil, quietLogger())

	_, _, err := session.Submit(context.Background(), "   ")
	var agentErr *AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.False(t, agentErr.Fatal)
	assert.Equal(t, int32(0), agent.calls.Load())
}

func TestHistoryAccumulatesAndClears(t *testing.T) {
	agent := &fakeAgent{answer: "ok"}
	session := NewSession("s", agent, nil, nil, nil, quietLogger())

	for _, msg := range []string{"one", "two", "three"} {
		_, _, err := session.Submit(context.Background(), msg)
		require.NoError(t, err)
	}
	history := session.History()
	require.Len(t, history, 6)
	assert.Equal(t, "three", history[4].Content)

	history[0].Content = "mutated"
	assert.Equal(t, "one", session.History()[0].Content)

	session.Clear()
	assert.Empty(t, session.History())
}

func TestTurnsAreSerialized(t *testing.T) {
	agent := &fakeAgent{answer: "ok", delay: 10 * time.Millisecond}
	session := NewSession("s", agent, nil, nil, nil, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := session.Submit(context.Background(), "hello")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), agent.maxInFlight.Load())
	assert.Len(t, session.History(), 16)
}

func TestTurnTracesAreRecorded(t *testing.T) {
	store, err := stores.NewSQLiteTraceStore(filepath.Join(t.TempDir(), "traces.sqlite"))
	require.NoError(t, err)
	defer store.Close()

	agent := &fakeAgent{answer: "Berlin is $499.", city: "Berlin"}
	speech := &fakeSpeech{}
	session := NewSession("traced", agent, &fakeImages{}, &media.Speaker{Synthesizer: speech}, store, quietLogger())

	_, img, err := session.Submit(context.Background(), "Berlin?")
	require.NoError(t, err)
	require.NotNil(t, img)
	session.WaitSpeech()

	traces, err := store.TracesBySession("traced")
	require.NoError(t, err)

	stages := map[string]string{}
	for _, trace := range traces {
		stages[trace.Stage] = trace.Status
	}
	assert.Equal(t, stores.StatusStart, stages[stores.StageTurn])
	assert.Equal(t, stores.StatusEnd, stages[stores.StageTool])
	assert.Equal(t, stores.StatusEnd, stages[stores.StageModel])
	assert.Equal(t, stores.StatusEnd, stages[stores.StageImage])
	assert.Equal(t, stores.StatusEnd, stages[stores.StageSpeech])
}
