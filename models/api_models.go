package models

// ImagePayload carries a generated image to API clients.
type ImagePayload struct {
	MimeType  string `json:"mime_type"`
	Data      string `json:"data"` // base64 encoded bytes
	SourceURL string `json:"source_url,omitempty"`
}

// Chat_Response is returned by the chat endpoint: the visible transcript
// after the turn and the illustration, if one was produced.
type Chat_Response struct {
	History []Message     `json:"history"`
	Image   *ImagePayload `json:"image,omitempty"`
}
