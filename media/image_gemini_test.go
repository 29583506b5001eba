package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func geminiServer(t *testing.T, status int, body map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/"+DefaultGeminiImageModel+":generateContent") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		raw, _ := json.Marshal(req["contents"])
		assert.Contains(t, string(raw), "vacation in Paris")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func geminiImages(t *testing.T, srv *httptest.Server) *GeminiImages {
	t.Helper()
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return &GeminiImages{Client: client}
}

func candidate(parts ...map[string]any) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{"role": "model", "parts": parts},
		}},
	}
}

func TestGeminiImagesSynthesize(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, candidate(
		map[string]any{"text": "Here is your picture of Paris."},
		map[string]any{"inlineData": map[string]any{
			"mimeType": "image/png",
			"data":     base64.StdEncoding.EncodeToString(pngBytes),
		}},
	))

	img, err := geminiImages(t, srv).Synthesize(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, pngBytes, img.Data)
	assert.Empty(t, img.SourceURL)
}

func TestGeminiImagesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
	}{
		{"text only", http.StatusOK, candidate(map[string]any{"text": "I cannot draw that."})},
		{"no candidates", http.StatusOK, map[string]any{"candidates": []any{}}},
		{"inline data is not an image", http.StatusOK, candidate(map[string]any{"inlineData": map[string]any{
			"mimeType": "image/png",
			"data":     base64.StdEncoding.EncodeToString([]byte("plain text, not a picture")),
		}})},
		{"server error", http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"code": 500, "message": "internal", "status": "INTERNAL"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := geminiServer(t, tt.status, tt.body)
			img, err := geminiImages(t, srv).Synthesize(context.Background(), "Paris")
			assert.Nil(t, img)
			assert.ErrorIs(t, err, ErrImageGeneration)
		})
	}
}

func TestGeminiImagesNilClient(t *testing.T) {
	_, err := (&GeminiImages{}).Synthesize(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrImageGeneration)
}
