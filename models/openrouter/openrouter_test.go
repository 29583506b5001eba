package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	models "github.com/Desarso/flightai/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsHeadersAndTools(t *testing.T) {
	var got OpenRouterRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://flightai.example", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "FlightAI", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","tool_calls":[{"id":"call_9","type":"function","function":{"name":"get_ticket_price","arguments":"{\"destination_city\":\"Paris\"}"}}]}}]}`))
	}))
	defer srv.Close()

	model := &OpenRouter_Model{
		APIKey:   "or-key",
		BaseURL:  srv.URL,
		SiteURL:  "https://flightai.example",
		SiteName: "FlightAI",
	}
	completion, err := model.Complete(context.Background(),
		[]models.Message{models.UserMessage("Paris?")},
		[]models.FunctionDeclaration{{Name: "get_ticket_price", Description: "price"}})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "auto", got.ToolChoice)
	params := got.Tools[0].Function.Parameters.(map[string]interface{})
	assert.NotNil(t, params["properties"])
	assert.NotNil(t, params["required"])

	assert.Equal(t, models.FinishReasonToolCalls, completion.FinishReason)
	require.Len(t, completion.Message.ToolCalls, 1)
	assert.Equal(t, "Paris", mustCity(t, completion.Message.ToolCalls[0].Arguments))
}

func TestCompleteFlattensContentParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":[{"type":"text","text":"Tickets to "},{"type":"text","text":"Berlin are $499."}]}}]}`))
	}))
	defer srv.Close()

	model := &OpenRouter_Model{BaseURL: srv.URL}
	completion, err := model.Complete(context.Background(), []models.Message{models.UserMessage("Berlin?")}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.FinishReasonStop, completion.FinishReason)
	assert.Equal(t, "Tickets to Berlin are $499.", completion.Message.Content)
}

func TestCompleteErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	model := &OpenRouter_Model{BaseURL: srv.URL}
	_, err := model.Complete(context.Background(), []models.Message{models.UserMessage("hi")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestConvertMessagesToolLinkage(t *testing.T) {
	msgs := convertMessages([]models.Message{
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{ID: "c1", Name: "get_ticket_price", Arguments: "{}"}}},
		models.ToolResultMessage("c1", "{}"),
	})
	require.Len(t, msgs, 2)
	assert.Nil(t, msgs[0].Content)
	require.NotNil(t, msgs[1].ToolCallID)
	assert.Equal(t, "c1", *msgs[1].ToolCallID)
}

func mustCity(t *testing.T, args string) string {
	t.Helper()
	var v struct {
		DestinationCity string `json:"destination_city"`
	}
	require.NoError(t, json.Unmarshal([]byte(args), &v))
	return v.DestinationCity
}
