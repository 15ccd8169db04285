// Package services defines the [Provider] interface for language model
// backends and implements it for Groq and Ollama.
//
// # Provider Interface
//
// Both backends implement a common prompt-in, completion-out abstraction so
// the chat pipeline works uniformly against hosted or local models.
//
// # Groq Implementation
//
// [GroqService] talks to Groq's OpenAI-compatible chat completions endpoint
// with a bearer API key resolved from configuration or the GROQ_API_KEY
// environment variable. Temperature is pinned to zero so generated SQL is
// as deterministic as the model allows.
//
// # Ollama Implementation
//
// [OllamaService] talks to a local Ollama daemon's /api/generate endpoint
// with streaming disabled. No authentication is required; the client timeout
// is generous because local generation can be slow.
//
// # Output Sanitation
//
// Model completions are normalized before the pipeline trusts them:
//   - [CleanSQL] : strips code fences, think-blocks, comments, and preamble
//   - [CleanBoolean] : normalizes classifier output to true/false
//   - [CleanIdentifier] : reduces output to a single bare identifier
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrMissingAPIKey] : Groq configured without a key
//   - [shared.ErrProviderRequest] : HTTP request failed or API returned an error
//   - [shared.ErrEmptyCompletion] : the model returned no usable text
//   - [shared.ErrUnknownProvider] : unrecognized llm.provider value
package services
