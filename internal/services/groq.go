// Groq implementation of [Provider]
//
// Groq exposes an OpenAI-compatible chat completions API; request and
// response types based on https://console.groq.com/docs/api-reference
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
	groqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqModel = "llama-3.1-70b-versatile"
)

// GroqMessage represents a single chat message in a completions request.
type GroqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GroqRequest represents a chat completions request body.
type GroqRequest struct {
	Model       string        `json:"model"`
	Messages    []GroqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// GroqChoice represents one completion choice in a response.
type GroqChoice struct {
	Index        int         `json:"index"`
	Message      GroqMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type groqError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// GroqResponse represents a chat completions response body.
type GroqResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []GroqChoice `json:"choices"`
	Error   *groqError   `json:"error,omitempty"`
}

// GroqService implements the Provider interface for the Groq API.
type GroqService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGroqService creates a new Groq provider with the given API key and model.
// The model defaults to llama-3.1-70b-versatile.
func NewGroqService(apiKey, model string) (*GroqService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set GROQ_API_KEY or llm.groq_api_key", shared.ErrMissingAPIKey)
	}
	if model == "" {
		model = defaultGroqModel
	}

	return &GroqService{
		baseURL:    groqBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (g *GroqService) Name() string {
	return "Groq"
}

func (g *GroqService) Model() string {
	return g.model
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (g *GroqService) SetBaseURL(url string) {
	g.baseURL = url
}

// Complete sends a single-message chat completion request and returns the
// assistant's reply. Temperature is pinned to 0 so SQL generation stays
// deterministic.
func (g *GroqService) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := GroqRequest{
		Model:       g.model,
		Messages:    []GroqMessage{{Role: "user", Content: prompt}},
		Temperature: 0,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrProviderRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: groq API status %d: %s", shared.ErrProviderRequest, resp.StatusCode, truncate(string(body), 200))
	}

	var completion GroqResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if completion.Error != nil {
		return "", fmt.Errorf("%w: %s", shared.ErrProviderRequest, completion.Error.Message)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", shared.ErrEmptyCompletion
	}

	return completion.Choices[0].Message.Content, nil
}

// truncate shortens s to at most n runes for error messages.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
