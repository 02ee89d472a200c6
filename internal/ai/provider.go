package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is one model invocation. System is prepended as a system
// message when non-empty.
type GenerateRequest struct {
	Model    string
	System   string
	Messages []Message
	Tools    []Tool
}

// Client is a credential-scoped handle to the model provider. One client is
// built per request from the caller's own key and discarded afterwards;
// credentials are never held in process-wide state.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Stream(ctx context.Context, req GenerateRequest) (<-chan string, <-chan error)
}

// ClientFactory builds a Client for a caller-supplied API key.
type ClientFactory func(apiKey string) Client
