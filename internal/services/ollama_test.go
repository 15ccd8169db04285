package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dbchat/dbchat/internal/shared"
)

func TestOllamaService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Defaults", func(t *testing.T) {
			srv := NewOllamaService("", "")

			if srv.baseURL != "http://localhost:11434" {
				t.Errorf("expected default baseURL, got %s", srv.baseURL)
			}
			if srv.Model() != "llama3" {
				t.Errorf("expected default model llama3, got %s", srv.Model())
			}
			if srv.Name() != "Ollama" {
				t.Errorf("expected name Ollama, got %s", srv.Name())
			}
		})

		t.Run("With Custom URL And Model", func(t *testing.T) {
			srv := NewOllamaService("http://ollama.internal:11434", "mistral")

			if srv.baseURL != "http://ollama.internal:11434" {
				t.Errorf("unexpected baseURL %s", srv.baseURL)
			}
			if srv.Model() != "mistral" {
				t.Errorf("unexpected model %s", srv.Model())
			}
		})
	})

	t.Run("Complete", func(t *testing.T) {
		t.Run("Successful Generation", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/generate" {
					t.Errorf("expected path /api/generate, got %s", r.URL.Path)
				}

				var req OllamaRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				if req.Stream {
					t.Error("expected non-streaming request")
				}
				if req.Model != "llama3" {
					t.Errorf("expected model llama3, got %s", req.Model)
				}

				json.NewEncoder(w).Encode(OllamaResponse{Response: "False", Done: true})
			}))
			defer server.Close()

			srv := NewOllamaService(server.URL, "")
			out, err := srv.Complete(context.Background(), "does this need a chart?")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if out != "False" {
				t.Errorf("unexpected completion: %q", out)
			}
		})

		t.Run("Error Payload", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(OllamaResponse{Error: "model 'llama3' not found"})
			}))
			defer server.Close()

			srv := NewOllamaService(server.URL, "")
			if _, err := srv.Complete(context.Background(), "hello"); !errors.Is(err, shared.ErrProviderRequest) {
				t.Errorf("expected ErrProviderRequest, got %v", err)
			}
		})

		t.Run("Non-200 Status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			srv := NewOllamaService(server.URL, "")
			if _, err := srv.Complete(context.Background(), "hello"); !errors.Is(err, shared.ErrProviderRequest) {
				t.Errorf("expected ErrProviderRequest, got %v", err)
			}
		})

		t.Run("Empty Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(OllamaResponse{Done: true})
			}))
			defer server.Close()

			srv := NewOllamaService(server.URL, "")
			if _, err := srv.Complete(context.Background(), "hello"); !errors.Is(err, shared.ErrEmptyCompletion) {
				t.Errorf("expected ErrEmptyCompletion, got %v", err)
			}
		})
	})
}

func TestNewProvider(t *testing.T) {
	t.Run("Groq", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.LLM.Provider = "groq"
		config.LLM.GroqAPIKey = "gsk_test"

		provider, err := NewProvider(config)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if provider.Name() != "Groq" {
			t.Errorf("expected Groq provider, got %s", provider.Name())
		}
	})

	t.Run("Ollama", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.LLM.Provider = "ollama"

		provider, err := NewProvider(config)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if provider.Name() != "Ollama" {
			t.Errorf("expected Ollama provider, got %s", provider.Name())
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.LLM.Provider = "openai"

		if _, err := NewProvider(config); !errors.Is(err, shared.ErrUnknownProvider) {
			t.Errorf("expected ErrUnknownProvider, got %v", err)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.LLM.Provider = ""

		if _, err := NewProvider(config); !errors.Is(err, shared.ErrProviderDisabled) {
			t.Errorf("expected ErrProviderDisabled, got %v", err)
		}
	})
}
