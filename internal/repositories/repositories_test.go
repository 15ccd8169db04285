package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/dbchat/dbchat/internal/models"
	"github.com/dbchat/dbchat/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewHistoryDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// createConversation creates and persists a conversation for exchange tests
func createConversation(t *testing.T, db *sql.DB, title string) *models.Conversation {
	t.Helper()

	repo := NewConversationRepository(db)
	conversation := models.NewConversation(0, title)
	if err := repo.Create(conversation); err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	return conversation
}

func TestConversationRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConversationRepository(db)
		conversation := models.NewConversation(0, "top artists by track count")

		if err := repo.Create(conversation); err != nil {
			t.Fatalf("failed to create conversation: %v", err)
		}

		if conversation.ID() == "" {
			t.Error("conversation ID should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConversationRepository(db)
		conversation := createConversation(t, db, "top artists by track count")

		retrieved, err := repo.Get(conversation.ID())
		if err != nil {
			t.Fatalf("failed to get conversation: %v", err)
		}

		if retrieved.ID() != conversation.ID() {
			t.Errorf("expected ID %s, got %s", conversation.ID(), retrieved.ID())
		}
		if retrieved.Title() != "top artists by track count" {
			t.Errorf("unexpected title %q", retrieved.Title())
		}
		if retrieved.Sequence() == 0 {
			t.Error("expected non-zero sequence")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConversationRepository(db)
		conversation := createConversation(t, db, "original title")

		conversation.SetTitle("renamed session")
		if err := repo.Update(conversation); err != nil {
			t.Fatalf("failed to update conversation: %v", err)
		}

		retrieved, err := repo.Get(conversation.ID())
		if err != nil {
			t.Fatalf("failed to get conversation: %v", err)
		}
		if retrieved.Title() != "renamed session" {
			t.Errorf("expected renamed title, got %q", retrieved.Title())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConversationRepository(db)
		conversation := createConversation(t, db, "to be deleted")

		if err := repo.Delete(conversation.ID()); err != nil {
			t.Fatalf("failed to delete conversation: %v", err)
		}

		if _, err := repo.Get(conversation.ID()); err == nil {
			t.Error("expected soft-deleted conversation to be hidden")
		}

		if err := repo.Delete(conversation.ID()); err == nil {
			t.Error("expected error deleting already-deleted conversation")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewConversationRepository(db)
		createConversation(t, db, "invoices by country")
		createConversation(t, db, "top artists")
		createConversation(t, db, "sales over time")

		t.Run("All Newest First", func(t *testing.T) {
			conversations, err := repo.List(map[string]any{})
			if err != nil {
				t.Fatalf("failed to list conversations: %v", err)
			}

			if len(conversations) != 3 {
				t.Fatalf("expected 3 conversations, got %d", len(conversations))
			}
			if conversations[0].Title() != "sales over time" {
				t.Errorf("expected newest conversation first, got %q", conversations[0].Title())
			}
		})

		t.Run("By Title Substring", func(t *testing.T) {
			conversations, err := repo.List(map[string]any{"title": "artists"})
			if err != nil {
				t.Fatalf("failed to list conversations: %v", err)
			}
			if len(conversations) != 1 {
				t.Fatalf("expected 1 conversation, got %d", len(conversations))
			}
		})

		t.Run("With Limit", func(t *testing.T) {
			conversations, err := repo.List(map[string]any{"limit": 2})
			if err != nil {
				t.Fatalf("failed to list conversations: %v", err)
			}
			if len(conversations) != 2 {
				t.Fatalf("expected 2 conversations, got %d", len(conversations))
			}
		})
	})
}

func TestExchangeRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		conversation := createConversation(t, db, "top artists")
		repo := NewExchangeRepository(db)

		exchange := models.NewExchange(0, conversation.ID(),
			"which 3 artists have the most tracks?",
			"SELECT ArtistId, COUNT(*) AS track_count FROM Track GROUP BY ArtistId ORDER BY track_count DESC LIMIT 3;",
			"Iron Maiden, U2 and Led Zeppelin have the most tracks.")
		exchange.SetExecution(3, false, 1200*time.Millisecond)

		if err := repo.Create(exchange); err != nil {
			t.Fatalf("failed to create exchange: %v", err)
		}

		retrieved, err := repo.Get(exchange.ID())
		if err != nil {
			t.Fatalf("failed to get exchange: %v", err)
		}

		if retrieved.ConversationID() != conversation.ID() {
			t.Errorf("expected conversation ID %s, got %s", conversation.ID(), retrieved.ConversationID())
		}
		if retrieved.RowCount() != 3 {
			t.Errorf("expected row count 3, got %d", retrieved.RowCount())
		}
		if retrieved.Charted() {
			t.Error("expected charted to be false")
		}
		if retrieved.Elapsed() != 1200*time.Millisecond {
			t.Errorf("expected elapsed 1.2s, got %v", retrieved.Elapsed())
		}
	})

	t.Run("Create Without SQL Or Answer", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		conversation := createConversation(t, db, "failed question")
		repo := NewExchangeRepository(db)

		exchange := models.NewExchange(0, conversation.ID(), "what's the weather?", "", "")
		if err := repo.Create(exchange); err != nil {
			t.Fatalf("failed to create exchange with nullable fields: %v", err)
		}

		retrieved, err := repo.Get(exchange.ID())
		if err != nil {
			t.Fatalf("failed to get exchange: %v", err)
		}
		if retrieved.GeneratedSQL() != "" {
			t.Errorf("expected empty SQL, got %q", retrieved.GeneratedSQL())
		}
	})

	t.Run("List By Conversation", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		first := createConversation(t, db, "session one")
		second := createConversation(t, db, "session two")
		repo := NewExchangeRepository(db)

		for i, q := range []string{"how many albums?", "how many tracks?"} {
			exchange := models.NewExchange(0, first.ID(), q, "SELECT 1;", "answer")
			if err := repo.Create(exchange); err != nil {
				t.Fatalf("failed to create exchange %d: %v", i, err)
			}
		}
		other := models.NewExchange(0, second.ID(), "name 10 artists", "SELECT Name FROM Artist LIMIT 10;", "answer")
		if err := repo.Create(other); err != nil {
			t.Fatalf("failed to create exchange: %v", err)
		}

		exchanges, err := repo.List(map[string]any{"conversation_id": first.ID()})
		if err != nil {
			t.Fatalf("failed to list exchanges: %v", err)
		}

		if len(exchanges) != 2 {
			t.Fatalf("expected 2 exchanges, got %d", len(exchanges))
		}
		if exchanges[0].Question() != "how many albums?" {
			t.Errorf("expected chronological order, got %q first", exchanges[0].Question())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		conversation := createConversation(t, db, "session")
		repo := NewExchangeRepository(db)

		exchange := models.NewExchange(0, conversation.ID(), "plot sales over time", "SELECT InvoiceDate, Total FROM Invoice;", "")
		if err := repo.Create(exchange); err != nil {
			t.Fatalf("failed to create exchange: %v", err)
		}

		exchange.SetExecution(412, true, 3*time.Second)
		if err := repo.Update(exchange); err != nil {
			t.Fatalf("failed to update exchange: %v", err)
		}

		retrieved, err := repo.Get(exchange.ID())
		if err != nil {
			t.Fatalf("failed to get exchange: %v", err)
		}
		if !retrieved.Charted() {
			t.Error("expected charted to be true after update")
		}
		if retrieved.RowCount() != 412 {
			t.Errorf("expected row count 412, got %d", retrieved.RowCount())
		}
	})

	t.Run("DeleteByConversation", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		conversation := createConversation(t, db, "session")
		repo := NewExchangeRepository(db)

		for _, q := range []string{"q1", "q2", "q3"} {
			exchange := models.NewExchange(0, conversation.ID(), q, "", "")
			if err := repo.Create(exchange); err != nil {
				t.Fatalf("failed to create exchange: %v", err)
			}
		}

		if err := repo.DeleteByConversation(conversation.ID()); err != nil {
			t.Fatalf("failed to delete exchanges: %v", err)
		}

		exchanges, err := repo.List(map[string]any{"conversation_id": conversation.ID()})
		if err != nil {
			t.Fatalf("failed to list exchanges: %v", err)
		}
		if len(exchanges) != 0 {
			t.Errorf("expected no exchanges after delete, got %d", len(exchanges))
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "conversations")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	second, err := NextSequence(db, "conversations")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected sequence to increment, got %d then %d", first, second)
	}
}
