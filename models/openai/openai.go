// Package openai adapts the OpenAI chat completions API to the models.Model
// contract using github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"fmt"
	"net/http"

	models "github.com/Desarso/flightai/models"
	openaisdk "github.com/sashabaranov/go-openai"
)

const DefaultModel = "gpt-4o-mini"

// OpenAI_Model calls the chat completions endpoint with an explicitly
// constructed client.
type OpenAI_Model struct {
	Client      *openaisdk.Client
	Model       string   // defaults to DefaultModel
	Temperature *float32 // optional
}

// NewClient builds a go-openai client. baseURL may be empty for the public
// API; httpClient may be nil for http.DefaultClient.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *openaisdk.Client {
	cfg := openaisdk.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openaisdk.NewClientWithConfig(cfg)
}

// New returns a chat model bound to client.
func New(client *openaisdk.Client, model string) *OpenAI_Model {
	return &OpenAI_Model{Client: client, Model: model}
}

// Complete sends one chat completion request. tools may be empty, in which
// case the model cannot request a tool call. A response without choices is
// returned as a zero Completion; the caller decides how to treat it.
func (o *OpenAI_Model) Complete(ctx context.Context, messages []models.Message, tools []models.FunctionDeclaration) (models.Completion, error) {
	if o.Client == nil {
		return models.Completion{}, fmt.Errorf("openai: client is nil")
	}

	modelToUse := o.Model
	if modelToUse == "" {
		modelToUse = DefaultModel
	}

	req := openaisdk.ChatCompletionRequest{
		Model:    modelToUse,
		Messages: ToSDKMessages(messages),
	}
	if len(tools) > 0 {
		req.Tools = ConvertTools(tools)
	}
	if o.Temperature != nil {
		req.Temperature = *o.Temperature
	}

	resp, err := o.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return models.Completion{}, fmt.Errorf("OpenAI chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Completion{}, nil
	}

	choice := resp.Choices[0]
	return models.Completion{
		FinishReason: models.FinishReason(choice.FinishReason),
		Message:      FromSDKMessage(choice.Message),
	}, nil
}
