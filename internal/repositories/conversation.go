package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dbchat/dbchat/internal/models"
	"github.com/dbchat/dbchat/internal/shared"
)

// ConversationRepository implements [models.Repository] for [models.Conversation] persistence.
type ConversationRepository struct {
	db *sql.DB
}

// NewConversationRepository creates a new [ConversationRepository] with the given database connection
func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts a new conversation into the database with generated ID and sequence
func (r *ConversationRepository) Create(conversation *models.Conversation) error {
	sequence, err := NextSequence(r.db, "conversations")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	conversation.SetID(id)

	if err := conversation.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO conversations (id, sequence, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, conversation.Title(), conversation.CreatedAt(), conversation.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}

	return nil
}

// Get retrieves a conversation by ID, excluding soft-deleted conversations
func (r *ConversationRepository) Get(id string) (*models.Conversation, error) {
	query := `
		SELECT id, sequence, title, created_at, updated_at, deleted_at
		FROM conversations
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing conversation in the database
func (r *ConversationRepository) Update(conversation *models.Conversation) error {
	if err := conversation.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE conversations
		SET title = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, conversation.Title(), now, conversation.ID())
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("conversation not found or already deleted: %s", conversation.ID())
	}

	return nil
}

// Delete soft-deletes a conversation by ID
func (r *ConversationRepository) Delete(id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE conversations
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("conversation not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all conversations matching the given criteria, newest first,
// excluding soft-deleted conversations
func (r *ConversationRepository) List(criteria map[string]any) ([]*models.Conversation, error) {
	query := `
		SELECT id, sequence, title, created_at, updated_at, deleted_at
		FROM conversations
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+title+"%")
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		conversation, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return conversations, nil
}

// scanOne scans a single [sql.Row] into a [models.Conversation]
func (r *ConversationRepository) scanOne(row *sql.Row) (*models.Conversation, error) {
	var (
		id        string
		sequence  int
		title     string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &title, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}

	return models.HydrateConversation(id, sequence, title, createdAt, updatedAt, nullTime(deletedAt)), nil
}

// scanRow scans a [sql.Rows] cursor position into a [models.Conversation]
func (r *ConversationRepository) scanRow(rows *sql.Rows) (*models.Conversation, error) {
	var (
		id        string
		sequence  int
		title     string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := rows.Scan(&id, &sequence, &title, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}

	return models.HydrateConversation(id, sequence, title, createdAt, updatedAt, nullTime(deletedAt)), nil
}

// nullTime converts a [sql.NullTime] to a *time.Time
func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
