// Package media turns a finished answer into side products: an image of the
// destination and spoken audio of the reply. Neither producer can change the
// answer itself.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrImageGeneration wraps every failure of an ImageSynthesizer.
var ErrImageGeneration = errors.New("image generation failed")

// ImagePromptTemplate is formatted with the destination city.
const ImagePromptTemplate = "An image representing a vacation in %[1]s, showing tourist spots and everything unique about %[1]s, in a vibrant pop-art style"

// maxImageBytes bounds the download of a generated image.
const maxImageBytes = 20 << 20

// Image is a generated illustration.
type Image struct {
	Data      []byte
	MimeType  string
	SourceURL string // empty when the backend returned inline bytes
}

// ImageSynthesizer produces an illustration for a destination city.
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, city string) (*Image, error)
}

// ImagePrompt renders the prompt for city.
func ImagePrompt(city string) string {
	return fmt.Sprintf(ImagePromptTemplate, strings.TrimSpace(city))
}

// newImage sniffs data and rejects anything that is not an image.
func newImage(data []byte, sourceURL string) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image body", ErrImageGeneration)
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%w: response is %s, not an image", ErrImageGeneration, mime.String())
	}
	return &Image{Data: data, MimeType: mime.String(), SourceURL: sourceURL}, nil
}

// fetchImage downloads url with client.
func fetchImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create image request: %v", ErrImageGeneration, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download image: %v", ErrImageGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: image download returned status %d", ErrImageGeneration, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image body: %v", ErrImageGeneration, err)
	}
	return data, nil
}
