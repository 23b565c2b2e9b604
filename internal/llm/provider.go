// Package llm abstracts the completion backends used for structured
// extraction. Every provider is asked for strict JSON output; parsing and
// schema enforcement happen in the extract package.
package llm

import (
	"context"

	"github.com/velocitatem/concordia/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete runs one completion and returns the raw model output
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompleteRequest contains the input for one completion
type CompleteRequest struct {
	// System is the system prompt establishing the extraction task
	System string

	// Prompt is the user message, typically an instruction plus document text
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompleteResponse contains the model output
type CompleteResponse struct {
	// Content is the raw completion text, expected to be a JSON object
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}
