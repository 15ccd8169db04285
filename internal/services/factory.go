package services

import (
	"fmt"

	"github.com/dbchat/dbchat/internal/shared"
)

// NewProvider constructs the configured [Provider] from the llm config
// section. The Groq API key is resolved from config or environment.
func NewProvider(config *shared.Config) (Provider, error) {
	switch config.LLM.Provider {
	case "groq":
		return NewGroqService(config.GroqKey(), config.LLM.GroqModel)
	case "ollama":
		return NewOllamaService(config.LLM.OllamaURL, config.LLM.OllamaModel), nil
	case "":
		return nil, shared.ErrProviderDisabled
	default:
		return nil, fmt.Errorf("%w: %q (want groq or ollama)", shared.ErrUnknownProvider, config.LLM.Provider)
	}
}
