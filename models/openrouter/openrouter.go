package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	models "github.com/Desarso/flightai/models"
)

const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel      = "openai/gpt-4o-mini"
)

// OpenRouter_Model implements the Model interface for OpenRouter API
// Also supports any OpenAI-compatible API endpoint
type OpenRouter_Model struct {
	Model       string // Model identifier (e.g., "openai/gpt-4o", "anthropic/claude-3-opus")
	APIKey      string
	Temperature *float64
	MaxTokens   *int
	SiteURL     string       // Optional: Your site URL for OpenRouter rankings
	SiteName    string       // Optional: Your site name for OpenRouter rankings
	BaseURL     string       // Optional: Custom API base URL (defaults to OpenRouter)
	HTTPClient  *http.Client // Optional: defaults to http.DefaultClient
}

// Complete implements the Model interface
func (o *OpenRouter_Model) Complete(ctx context.Context, messages []models.Message, tools []models.FunctionDeclaration) (models.Completion, error) {
	modelToUse := o.Model
	if modelToUse == "" {
		modelToUse = DefaultModel
	}

	requestBody := OpenRouterRequest{
		Model:       modelToUse,
		Messages:    convertMessages(messages),
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
	}
	if len(tools) > 0 {
		requestBody.Tools = ConvertToOpenRouterTools(tools)
		requestBody.ToolChoice = "auto"
	}

	response, err := o.makeRequest(ctx, requestBody)
	if err != nil {
		return models.Completion{}, err
	}
	return openRouterResponseToCompletion(response), nil
}

// makeRequest sends a non-streaming request to OpenRouter
func (o *OpenRouter_Model) makeRequest(ctx context.Context, requestBody OpenRouterRequest) (OpenRouterResponse, error) {
	jsonBytes, err := json.Marshal(requestBody)
	if err != nil {
		return OpenRouterResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	// Use custom base URL if provided, otherwise use OpenRouter
	baseURL := o.BaseURL
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(jsonBytes))
	if err != nil {
		return OpenRouterResponse{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	o.setHeaders(req)

	client := o.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return OpenRouterResponse{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OpenRouterResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return OpenRouterResponse{}, fmt.Errorf("OpenRouter API error: %s (type: %s)", errResp.Error.Message, errResp.Error.Type)
		}
		return OpenRouterResponse{}, fmt.Errorf("OpenRouter API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response OpenRouterResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return OpenRouterResponse{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return response, nil
}

// setHeaders sets the required headers for OpenRouter API requests
func (o *OpenRouter_Model) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+o.APIKey)
	req.Header.Set("Content-Type", "application/json")

	// Optional headers for OpenRouter
	if o.SiteURL != "" {
		req.Header.Set("HTTP-Referer", o.SiteURL)
	}
	if o.SiteName != "" {
		req.Header.Set("X-Title", o.SiteName)
	}
}

func convertMessages(msgs []models.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		msg := Message{Role: m.Role}
		if m.Content != "" {
			msg.Content = m.Content
		}
		if m.ToolCallID != "" {
			id := m.ToolCallID
			msg.ToolCallID = &id
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: ToolCallFunction{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

// openRouterResponseToCompletion converts the first choice to a Completion.
// A response without choices yields a zero Completion.
func openRouterResponseToCompletion(response OpenRouterResponse) models.Completion {
	if len(response.Choices) == 0 {
		return models.Completion{}
	}
	choice := response.Choices[0]

	completion := models.Completion{
		Message: models.Message{
			Role:    choice.Message.Role,
			Content: contentText(choice.Message.Content),
		},
	}
	if choice.FinishReason != nil {
		completion.FinishReason = models.FinishReason(*choice.FinishReason)
	}
	for _, toolCall := range choice.Message.ToolCalls {
		if toolCall.Type != "" && toolCall.Type != "function" {
			continue
		}
		completion.Message.ToolCalls = append(completion.Message.ToolCalls, models.ToolCall{
			ID:        toolCall.ID,
			Name:      toolCall.Function.Name,
			Arguments: toolCall.Function.Arguments,
		})
	}
	return completion
}

// contentText flattens string or text-part array content.
func contentText(content interface{}) string {
	switch c := content.(type) {
	case string:
		return c
	case []interface{}:
		var sb strings.Builder
		for _, raw := range c {
			part, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if text, ok := part["text"].(string); ok {
				sb.WriteString(text)
			}
		}
		return sb.String()
	default:
		return ""
	}
}
