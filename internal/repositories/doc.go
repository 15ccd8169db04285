// Package repositories implements SQLite persistence for the conversation history store.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [ConversationRepository] : Chat session persistence with title search
//   - [ExchangeRepository] : Question/SQL/answer round trips, conversation-scoped
//
// Sequence numbers provide stable, human-readable ordering (e.g., conversation #12, exchange #340)
// independent of UUIDs and creation timestamps. The [NextSequence] function atomically increments
// per-table sequence counters in dedicated sequence tables.
package repositories
