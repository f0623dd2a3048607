// Chat completions request types.
//
// These types are used by:
//   - messages.go: MessagesFromTurns() maps conversation turns to wire messages
//   - client.go:   StreamChat() sends them as a streaming request
package openai

import "fmt"

// Message represents a message in OpenAI chat format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is one streaming chat completion request.
type ChatRequest struct {
	Model     string
	MaxTokens int
	Messages  []Message
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.StatusCode)
	}
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
}
