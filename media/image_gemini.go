package media

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultGeminiImageModel = "gemini-2.5-flash-image"

// GeminiImages generates images with a Gemini image model, which returns the
// picture inline.
type GeminiImages struct {
	Client *genai.Client
	Model  string
}

// NewGeminiImages creates a Gemini API client for apiKey.
func NewGeminiImages(ctx context.Context, apiKey, model string) (*GeminiImages, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiImages{Client: client, Model: model}, nil
}

func (g *GeminiImages) Synthesize(ctx context.Context, city string) (*Image, error) {
	if g.Client == nil {
		return nil, fmt.Errorf("%w: gemini client is nil", ErrImageGeneration)
	}
	model := g.Model
	if model == "" {
		model = DefaultGeminiImageModel
	}

	result, err := g.Client.Models.GenerateContent(ctx, model, genai.Text(ImagePrompt(city)), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageGeneration, err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no image generated in response", ErrImageGeneration)
	}

	// Text parts are commentary; take the first inline image.
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		return newImage(part.InlineData.Data, "")
	}
	return nil, fmt.Errorf("%w: no image data found in response", ErrImageGeneration)
}
