package models

// Chat_Request is the body of a chat submission from the presentation layer.
type Chat_Request struct {
	Message string `json:"message" binding:"required"`
}
