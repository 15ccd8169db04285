package models

import (
	"fmt"
	"time"
)

// Exchange represents one question/answer round trip: the user's question,
// the SQL the model generated, the narrated answer, and execution metadata.
type Exchange struct {
	id             string
	sequence       int
	conversationID string
	question       string
	generatedSQL   string
	answer         string
	rowCount       int
	charted        bool
	elapsed        time.Duration
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

// NewExchange creates an Exchange for the given conversation.
// The ID is assigned by the repository on Create.
func NewExchange(sequence int, conversationID, question, generatedSQL, answer string) *Exchange {
	now := time.Now().UTC()
	return &Exchange{
		sequence:       sequence,
		conversationID: conversationID,
		question:       question,
		generatedSQL:   generatedSQL,
		answer:         answer,
		createdAt:      now,
		updatedAt:      now,
	}
}

// HydrateExchange reconstructs an Exchange from stored columns.
func HydrateExchange(
	id string, sequence int, conversationID, question, generatedSQL, answer string,
	rowCount int, charted bool, elapsed time.Duration,
	createdAt, updatedAt time.Time, deletedAt *time.Time,
) *Exchange {
	return &Exchange{
		id:             id,
		sequence:       sequence,
		conversationID: conversationID,
		question:       question,
		generatedSQL:   generatedSQL,
		answer:         answer,
		rowCount:       rowCount,
		charted:        charted,
		elapsed:        elapsed,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		deletedAt:      deletedAt,
	}
}

func (e *Exchange) ID() string             { return e.id }
func (e *Exchange) Sequence() int          { return e.sequence }
func (e *Exchange) ConversationID() string { return e.conversationID }
func (e *Exchange) Question() string       { return e.question }
func (e *Exchange) GeneratedSQL() string   { return e.generatedSQL }
func (e *Exchange) Answer() string         { return e.answer }
func (e *Exchange) RowCount() int          { return e.rowCount }
func (e *Exchange) Charted() bool          { return e.charted }
func (e *Exchange) Elapsed() time.Duration { return e.elapsed }
func (e *Exchange) CreatedAt() time.Time   { return e.createdAt }
func (e *Exchange) UpdatedAt() time.Time   { return e.updatedAt }
func (e *Exchange) DeletedAt() *time.Time  { return e.deletedAt }

// SetID assigns the generated identifier. Called once by the repository.
func (e *Exchange) SetID(id string) { e.id = id }

// SetExecution records result metadata after the pipeline runs.
func (e *Exchange) SetExecution(rowCount int, charted bool, elapsed time.Duration) {
	e.rowCount = rowCount
	e.charted = charted
	e.elapsed = elapsed
	e.updatedAt = time.Now().UTC()
}

// Validate checks that the exchange has an ID, a parent conversation, and a question.
func (e *Exchange) Validate() error {
	if e.id == "" {
		return fmt.Errorf("exchange ID is required")
	}
	if e.conversationID == "" {
		return fmt.Errorf("exchange conversation ID is required")
	}
	if e.question == "" {
		return fmt.Errorf("exchange question is required")
	}
	return nil
}
