package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dbchat/dbchat/internal/models"
	"github.com/dbchat/dbchat/internal/shared"
)

// ExchangeRepository implements [models.Repository] for [models.Exchange] persistence.
//
// Exchanges are append-heavy: the engine records one per answered question.
// Reads are conversation-scoped for replaying a session's transcript.
type ExchangeRepository struct {
	db *sql.DB
}

// NewExchangeRepository creates a new [ExchangeRepository] with the given database connection
func NewExchangeRepository(db *sql.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

// Create inserts a new exchange into the database with generated ID and sequence
func (r *ExchangeRepository) Create(exchange *models.Exchange) error {
	sequence, err := NextSequence(r.db, "exchanges")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	exchange.SetID(id)

	if err := exchange.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO exchanges (
			id, sequence, conversation_id, question, generated_sql, answer,
			row_count, charted, elapsed_ms, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var generatedSQL any = exchange.GeneratedSQL()
	if generatedSQL == "" {
		generatedSQL = nil
	}

	var answer any = exchange.Answer()
	if answer == "" {
		answer = nil
	}

	_, err = r.db.Exec(query,
		id,
		sequence,
		exchange.ConversationID(),
		exchange.Question(),
		generatedSQL,
		answer,
		exchange.RowCount(),
		exchange.Charted(),
		exchange.Elapsed().Milliseconds(),
		exchange.CreatedAt(),
		exchange.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}

	return nil
}

// Get retrieves an exchange by ID, excluding soft-deleted exchanges
func (r *ExchangeRepository) Get(id string) (*models.Exchange, error) {
	query := `
		SELECT id, sequence, conversation_id, question, generated_sql, answer,
			row_count, charted, elapsed_ms, created_at, updated_at, deleted_at
		FROM exchanges
		WHERE id = ? AND deleted_at IS NULL
	`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		return nil, fmt.Errorf("exchange not found")
	}

	return r.scanRow(rows)
}

// Update modifies an existing exchange in the database
func (r *ExchangeRepository) Update(exchange *models.Exchange) error {
	if err := exchange.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE exchanges
		SET answer = ?, row_count = ?, charted = ?, elapsed_ms = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		exchange.Answer(),
		exchange.RowCount(),
		exchange.Charted(),
		exchange.Elapsed().Milliseconds(),
		now,
		exchange.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update exchange: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("exchange not found or already deleted: %s", exchange.ID())
	}

	return nil
}

// Delete soft-deletes an exchange by ID
func (r *ExchangeRepository) Delete(id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE exchanges
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete exchange: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("exchange not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all exchanges matching the given criteria in chronological
// order, excluding soft-deleted exchanges. Supported criteria:
// "conversation_id" (string), "limit" (int).
func (r *ExchangeRepository) List(criteria map[string]any) ([]*models.Exchange, error) {
	query := `
		SELECT id, sequence, conversation_id, question, generated_sql, answer,
			row_count, charted, elapsed_ms, created_at, updated_at, deleted_at
		FROM exchanges
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if conversationID, ok := criteria["conversation_id"].(string); ok && conversationID != "" {
		query += " AND conversation_id = ?"
		args = append(args, conversationID)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []*models.Exchange
	for rows.Next() {
		exchange, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, exchange)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return exchanges, nil
}

// DeleteByConversation soft-deletes all exchanges belonging to a conversation.
func (r *ExchangeRepository) DeleteByConversation(conversationID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE exchanges
		SET deleted_at = ?
		WHERE conversation_id = ? AND deleted_at IS NULL
	`

	if _, err := r.db.Exec(query, now, conversationID); err != nil {
		return fmt.Errorf("failed to delete exchanges: %w", err)
	}

	return nil
}

// scanRow scans a [sql.Rows] cursor position into a [models.Exchange]
func (r *ExchangeRepository) scanRow(rows *sql.Rows) (*models.Exchange, error) {
	var (
		id             string
		sequence       int
		conversationID string
		question       string
		generatedSQL   sql.NullString
		answer         sql.NullString
		rowCount       int
		charted        bool
		elapsedMS      int64
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &conversationID, &question, &generatedSQL, &answer,
		&rowCount, &charted, &elapsedMS, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan exchange: %w", err)
	}

	return models.HydrateExchange(
		id, sequence, conversationID, question, generatedSQL.String, answer.String,
		rowCount, charted, time.Duration(elapsedMS)*time.Millisecond,
		createdAt, updatedAt, nullTime(deletedAt),
	), nil
}
