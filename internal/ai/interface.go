package ai

import (
	"context"
)

// ChatClient defines the contract for a single request/response exchange with a language model.
// Implementations translate the provider-neutral transcript into their wire format and back.
type ChatClient interface {
	// Complete sends the whole transcript and returns the model's next turn, which may carry
	// text, tool calls, or both.
	// Network and HTTP failures are returned as apperrors Provider errors; a response without
	// any choice wraps ErrNoChoice.
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
