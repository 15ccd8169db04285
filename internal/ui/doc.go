// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a single chat view:
//   - A viewport holding the conversation transcript, including result tables and charts
//   - A textarea for composing the next question
//   - A spinner plus engine progress messages while the pipeline runs
//   - A status bar with the provider name and live CPU/RAM usage
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ChatEngine, providing non-blocking status reporting while a question is answered.
//
// Contextual help is displayed via charmbracelet/bubbles/help.
package ui
