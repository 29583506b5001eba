package media

import (
	"context"
	"fmt"
	"net/http"

	openaisdk "github.com/sashabaranov/go-openai"
)

// OpenAIImages generates images through the OpenAI images API and downloads
// the returned URL.
type OpenAIImages struct {
	Client     *openaisdk.Client
	Model      string       // defaults to dall-e-2
	Size       string       // defaults to 1024x1024
	HTTPClient *http.Client // used for the download
}

func (o *OpenAIImages) Synthesize(ctx context.Context, city string) (*Image, error) {
	if o.Client == nil {
		return nil, fmt.Errorf("%w: openai client is nil", ErrImageGeneration)
	}
	model := o.Model
	if model == "" {
		model = openaisdk.CreateImageModelDallE2
	}
	size := o.Size
	if size == "" {
		size = openaisdk.CreateImageSize1024x1024
	}

	resp, err := o.Client.CreateImage(ctx, openaisdk.ImageRequest{
		Prompt:         ImagePrompt(city),
		Model:          model,
		N:              1,
		Size:           size,
		ResponseFormat: openaisdk.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageGeneration, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no image data received from the API", ErrImageGeneration)
	}
	url := resp.Data[0].URL
	if url == "" {
		return nil, fmt.Errorf("%w: no image URL in the response", ErrImageGeneration)
	}

	data, err := fetchImage(ctx, o.HTTPClient, url)
	if err != nil {
		return nil, err
	}
	return newImage(data, url)
}
