// package services defines interface Provider for interacting with LLM HTTP APIs
//
// Groq (hosted), Ollama (local)
package services

import (
	"context"
)

// Provider defines the interface for language model backends (Groq, Ollama)
// that turn prompts into completions.
type Provider interface {
	// Complete sends a prompt to the model and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier requests are sent with.
	Model() string

	// Name returns the name of the provider (e.g., "Groq", "Ollama")
	Name() string
}
