package models

import (
	"fmt"
	"strings"
	"time"
)

// Conversation represents a chat session against the target database.
// The title is derived from the first question asked.
type Conversation struct {
	id        string
	sequence  int
	title     string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewConversation creates a Conversation with the given sequence and title.
// The ID is assigned by the repository on Create.
func NewConversation(sequence int, title string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		sequence:  sequence,
		title:     strings.TrimSpace(title),
		createdAt: now,
		updatedAt: now,
	}
}

// HydrateConversation reconstructs a Conversation from stored columns.
func HydrateConversation(id string, sequence int, title string, createdAt, updatedAt time.Time, deletedAt *time.Time) *Conversation {
	return &Conversation{
		id:        id,
		sequence:  sequence,
		title:     title,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (c *Conversation) ID() string            { return c.id }
func (c *Conversation) Sequence() int         { return c.sequence }
func (c *Conversation) Title() string         { return c.title }
func (c *Conversation) CreatedAt() time.Time  { return c.createdAt }
func (c *Conversation) UpdatedAt() time.Time  { return c.updatedAt }
func (c *Conversation) DeletedAt() *time.Time { return c.deletedAt }

// SetID assigns the generated identifier. Called once by the repository.
func (c *Conversation) SetID(id string) { c.id = id }

// SetTitle updates the conversation title and bumps the updated timestamp.
func (c *Conversation) SetTitle(title string) {
	c.title = strings.TrimSpace(title)
	c.updatedAt = time.Now().UTC()
}

// Validate checks that the conversation has an ID and a title.
func (c *Conversation) Validate() error {
	if c.id == "" {
		return fmt.Errorf("conversation ID is required")
	}
	if c.title == "" {
		return fmt.Errorf("conversation title is required")
	}
	return nil
}
