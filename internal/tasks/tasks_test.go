package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dbchat/dbchat/internal/database"
	"github.com/dbchat/dbchat/internal/models"
	internaltesting "github.com/dbchat/dbchat/internal/testing"
)

const testSchema = "CREATE TABLE Artist (\n  ArtistId int NOT NULL,\n  Name varchar(120)\n)"

func artistResults() *database.ResultSet {
	return &database.ResultSet{
		Columns: []string{"Name"},
		Rows:    [][]string{{"AC/DC"}, {"Accept"}},
	}
}

func salesResults() *database.ResultSet {
	return &database.ResultSet{
		Columns: []string{"Month", "Total"},
		Rows: [][]string{
			{"2009-01", "35.64"},
			{"2009-02", "37.62"},
			{"2009-03", "41.62"},
		},
	}
}

type recordedAnswers struct {
	answers []*Answer
	err     error
}

func (r *recordedAnswers) Record(answer *Answer) error {
	r.answers = append(r.answers, answer)
	return r.err
}

func TestChatEngineAsk(t *testing.T) {
	t.Run("Plain Path", func(t *testing.T) {
		provider := &internaltesting.MockProvider{
			Completions: []string{
				"False",
				"SELECT Name FROM Artist LIMIT 10;",
				"Here are the artists in the database.",
			},
		}
		target := &internaltesting.MockTarget{Schema: testSchema, Results: artistResults()}
		engine := NewChatEngine(provider, target, EngineOpts{RowLimit: 100})

		answer, err := engine.Ask(context.Background(), nil, "Name 10 artists", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if answer.SQL != "SELECT Name FROM Artist LIMIT 10;" {
			t.Errorf("unexpected SQL: %q", answer.SQL)
		}
		if answer.Text != "Here are the artists in the database." {
			t.Errorf("unexpected answer text: %q", answer.Text)
		}
		if answer.Fallback {
			t.Error("expected a real answer, not a fallback")
		}
		if answer.Chart != "" {
			t.Errorf("expected no chart on the plain path, got %q", answer.Chart)
		}
		if answer.Elapsed <= 0 {
			t.Error("expected elapsed time to be recorded")
		}

		if len(provider.Calls) != 3 {
			t.Fatalf("expected 3 LLM calls, got %d", len(provider.Calls))
		}
		if !strings.Contains(provider.Calls[1], testSchema) {
			t.Error("expected schema in the SQL prompt")
		}
		if len(target.Queries) != 1 {
			t.Fatalf("expected 1 query, got %d", len(target.Queries))
		}
	})

	t.Run("Chart Path", func(t *testing.T) {
		provider := &internaltesting.MockProvider{
			Completions: []string{
				"True",
				"Invoice",
				"SELECT strftime('%Y-%m', InvoiceDate) AS Month, SUM(Total) AS Total FROM Invoice GROUP BY Month;",
				"Monthly sales grew steadily through early 2009.",
			},
		}
		target := &internaltesting.MockTarget{
			Schema:  testSchema,
			Tables:  map[string]bool{"Invoice": true},
			Results: salesResults(),
		}
		engine := NewChatEngine(provider, target, EngineOpts{RowLimit: 100, ChartWidth: 60, ChartHeight: 12})

		answer, err := engine.Ask(context.Background(), nil, "Plot sales over time", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if answer.Table != "Invoice" {
			t.Errorf("expected table Invoice, got %q", answer.Table)
		}
		if answer.Chart == "" {
			t.Error("expected a rendered chart")
		}
		if answer.Text != "Monthly sales grew steadily through early 2009." {
			t.Errorf("unexpected answer text: %q", answer.Text)
		}
		if len(provider.Calls) != 4 {
			t.Fatalf("expected 4 LLM calls, got %d", len(provider.Calls))
		}
	})

	t.Run("Chart Path Missing Table", func(t *testing.T) {
		provider := &internaltesting.MockProvider{
			Completions: []string{"True", "Imaginary"},
		}
		target := &internaltesting.MockTarget{Schema: testSchema, Tables: map[string]bool{}}
		engine := NewChatEngine(provider, target, EngineOpts{})

		answer, err := engine.Ask(context.Background(), nil, "Plot imaginary data", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !answer.Fallback {
			t.Error("expected a fallback answer")
		}
		if !strings.Contains(answer.Text, "couldn't find the information") {
			t.Errorf("unexpected fallback text: %q", answer.Text)
		}
		if answer.SQL != "" {
			t.Errorf("expected no SQL when the table is missing, got %q", answer.SQL)
		}
		if len(target.Queries) != 0 {
			t.Errorf("expected no query execution, got %d", len(target.Queries))
		}
	})

	t.Run("Query Failure Falls Back", func(t *testing.T) {
		provider := &internaltesting.MockProvider{
			Completions: []string{"False", "SELECT nonsense FROM nowhere;"},
		}
		target := &internaltesting.MockTarget{
			Schema:   testSchema,
			QueryErr: errors.New("table nowhere does not exist"),
		}
		engine := NewChatEngine(provider, target, EngineOpts{})

		answer, err := engine.Ask(context.Background(), nil, "gibberish question", nil)
		if err != nil {
			t.Fatalf("expected fallback, not error, got %v", err)
		}

		if !answer.Fallback {
			t.Error("expected a fallback answer")
		}
		if !strings.Contains(answer.Text, "Sorry, I couldn't find any data") {
			t.Errorf("unexpected fallback text: %q", answer.Text)
		}
	})

	t.Run("Classification Failure Errors", func(t *testing.T) {
		provider := &internaltesting.MockProvider{Err: errors.New("connection refused")}
		target := &internaltesting.MockTarget{Schema: testSchema}
		engine := NewChatEngine(provider, target, EngineOpts{})

		if _, err := engine.Ask(context.Background(), nil, "hello", nil); err == nil {
			t.Error("expected an error when classification cannot run")
		}
	})

	t.Run("Nil Provider", func(t *testing.T) {
		engine := NewChatEngine(nil, &internaltesting.MockTarget{}, EngineOpts{})

		if _, err := engine.Ask(context.Background(), nil, "hello", nil); err == nil {
			t.Error("expected an error with no provider")
		}
	})

	t.Run("History In Prompts", func(t *testing.T) {
		provider := &internaltesting.MockProvider{
			Completions: []string{"False", "SELECT 1;", "One."},
		}
		target := &internaltesting.MockTarget{Schema: testSchema, Results: artistResults()}
		engine := NewChatEngine(provider, target, EngineOpts{})

		history := []models.ChatMessage{
			{Role: models.RoleUser, Content: "Name 10 artists"},
			{Role: models.RoleAssistant, Content: "Here are ten artists."},
		}

		if _, err := engine.Ask(context.Background(), nil, "and their albums?", history); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for i, call := range provider.Calls {
			if !strings.Contains(call, "Human: Name 10 artists") {
				t.Errorf("expected history in prompt %d", i)
			}
		}
	})
}

func TestChatEngineProgress(t *testing.T) {
	t.Run("Emits Updates", func(t *testing.T) {
		provider := &internaltesting.MockProvider{
			Completions: []string{"False", "SELECT 1;", "One."},
		}
		target := &internaltesting.MockTarget{Schema: testSchema, Results: artistResults()}
		engine := NewChatEngine(provider, target, EngineOpts{})

		progress := make(chan ProgressUpdate, 32)
		if _, err := engine.Ask(context.Background(), progress, "Name 10 artists", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		phases := map[Phase]bool{}
		for update := range progress {
			phases[update.Phase] = true
			if update.Message == "" {
				t.Error("expected every update to carry a message")
			}
		}

		for _, want := range []Phase{Classify, GenerateSQL, Execute, Narrate} {
			if !phases[want] {
				t.Errorf("expected a %s update", want)
			}
		}
	})

	t.Run("Full Channel Never Blocks", func(t *testing.T) {
		provider := &internaltesting.MockProvider{
			Completions: []string{"False", "SELECT 1;", "One."},
		}
		target := &internaltesting.MockTarget{Schema: testSchema, Results: artistResults()}
		engine := NewChatEngine(provider, target, EngineOpts{})

		// Unbuffered channel with no reader; sends must be skipped
		progress := make(chan ProgressUpdate)

		done := make(chan struct{})
		go func() {
			defer close(done)
			engine.Ask(context.Background(), progress, "Name 10 artists", nil)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Ask blocked on a full progress channel")
		}
	})
}

func TestChatEngineRecording(t *testing.T) {
	t.Run("Records Answer", func(t *testing.T) {
		recorder := &recordedAnswers{}
		provider := &internaltesting.MockProvider{
			Completions: []string{"False", "SELECT Name FROM Artist;", "Artists listed."},
		}
		target := &internaltesting.MockTarget{Schema: testSchema, Results: artistResults()}
		engine := NewChatEngine(provider, target, EngineOpts{Recorder: recorder})

		if _, err := engine.Ask(context.Background(), nil, "Name artists", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(recorder.answers) != 1 {
			t.Fatalf("expected 1 recorded answer, got %d", len(recorder.answers))
		}
		if recorder.answers[0].SQL != "SELECT Name FROM Artist;" {
			t.Errorf("unexpected recorded SQL: %q", recorder.answers[0].SQL)
		}
	})

	t.Run("Recorder Failure Is Swallowed", func(t *testing.T) {
		recorder := &recordedAnswers{err: errors.New("disk full")}
		provider := &internaltesting.MockProvider{
			Completions: []string{"False", "SELECT 1;", "One."},
		}
		target := &internaltesting.MockTarget{Schema: testSchema, Results: artistResults()}
		engine := NewChatEngine(provider, target, EngineOpts{Recorder: recorder})

		if _, err := engine.Ask(context.Background(), nil, "Name artists", nil); err != nil {
			t.Errorf("expected recording failure to be swallowed, got %v", err)
		}
	})

	t.Run("Fallbacks Are Recorded", func(t *testing.T) {
		recorder := &recordedAnswers{}
		provider := &internaltesting.MockProvider{
			Completions: []string{"False", "SELECT boom;"},
		}
		target := &internaltesting.MockTarget{
			Schema:   testSchema,
			QueryErr: errors.New("boom"),
		}
		engine := NewChatEngine(provider, target, EngineOpts{Recorder: recorder})

		if _, err := engine.Ask(context.Background(), nil, "boom", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(recorder.answers) != 1 || !recorder.answers[0].Fallback {
			t.Error("expected the fallback answer to be recorded")
		}
	})
}
