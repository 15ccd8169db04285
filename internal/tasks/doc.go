// Package tasks orchestrates the question-answering pipeline with real-time progress reporting.
//
// # Core Operation
//
// The [Engine] interface defines one operation:
//
//  1. [Engine.Ask] : Answer a natural-language question against the database
//     - Classifies whether the question wants a chart
//     - Chart path: picks the relevant table and verifies it exists
//     - Generates a SQL query from the schema, the conversation, and the question
//     - Executes it read-only with a row limit and deadline
//     - Narrates the results as a natural-language answer
//
// # Progress Reporting
//
// All phases emit non-blocking progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Fallbacks
//
// Failures after classification produce an apology answer instead of an error,
// so one bad model query never ends an interactive session. A chart request
// against a table the model invented gets its own fallback message.
//
// # History
//
// The optional [Recorder] interface enables automatic exchange persistence.
// Exchanges are recorded best-effort (errors logged) to avoid disrupting the session.
//
// # Implementation
//
// [ChatEngine] implements [Engine] with dependencies on:
//   - [services.Provider] : Groq or Ollama language model client
//   - [Target] : the MySQL database being queried (database.Database)
//   - [Recorder] : Optional persistence layer (cmd wires the exchange repository)
//
// LLM calls flow through a rate limiter so hosted APIs aren't hammered.
package tasks
