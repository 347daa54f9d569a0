// Package ai wraps the generative model behind a small provider interface
// offering schema-constrained and free-text generation.
package ai

import (
	"context"

	"google.golang.org/genai"
)

// Provider is an AI backend for one operation.
type Provider interface {
	// GenerateStructured asks for JSON constrained by req.Schema.
	GenerateStructured(ctx context.Context, req Request) (*Response, error)
	// GenerateText asks for free text; any JSON in it must be repaired by the caller.
	GenerateText(ctx context.Context, req Request) (*Response, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// StatsReporter is implemented by providers that track circuit breaker state.
type StatsReporter interface {
	GetCircuitBreakerStats() map[string]any
}

// Attachment is binary input sent inline next to the prompt text.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Request is a single generation call.
type Request struct {
	Prompt       string
	SystemPrompt string
	Attachment   *Attachment
	Schema       *genai.Schema
	// Temperature overrides the operation's configured value when set.
	Temperature *float32
}

// Response is the raw model output.
type Response struct {
	Text  string
	Usage *TokenUsage
	Model string
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
