// Package models defines domain entities and persistence interfaces for the
// dbchat conversation history store.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs passed between the
// pipeline and presentation layers
//   - [ChatMessage] : A single prompt-context message (question or answer)
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Conversation] : A chat session, titled by its first question
//   - [Exchange] : One question/answer round trip with the generated SQL
//
// Persistent entities implement [Model] and are stored through
// [Repository] implementations in the repositories package.
package models
