// Ollama implementation of [Provider]
//
// Talks to a local Ollama daemon's generate endpoint; no authentication.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dbchat/dbchat/internal/shared"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3"
)

// OllamaRequest represents a generate request body.
type OllamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// OllamaResponse represents a non-streaming generate response body.
type OllamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// OllamaService implements the Provider interface for a local Ollama daemon.
type OllamaService struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaService creates a new Ollama provider. baseURL defaults to the
// local daemon, model defaults to llama3. Local generation can be slow, so
// the client timeout is generous.
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}

	return &OllamaService{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 300 * time.Second},
	}
}

func (o *OllamaService) Name() string {
	return "Ollama"
}

func (o *OllamaService) Model() string {
	return o.model
}

// Complete sends a non-streaming generate request and returns the model output.
func (o *OllamaService) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := OllamaRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to connect to Ollama: %v", shared.ErrProviderRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: ollama API status %d: %s", shared.ErrProviderRequest, resp.StatusCode, truncate(string(body), 200))
	}

	var generated OllamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if generated.Error != "" {
		return "", fmt.Errorf("%w: %s", shared.ErrProviderRequest, generated.Error)
	}
	if generated.Response == "" {
		return "", shared.ErrEmptyCompletion
	}

	return generated.Response, nil
}
