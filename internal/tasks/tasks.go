// package tasks implements the question-answering pipeline over a SQL database.
//
// The core abstraction is Engine, which orchestrates one question end to end:
// classify whether it wants a chart, pick the relevant table, generate SQL,
// execute it, and narrate the results. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dbchat/dbchat/internal/database"
	"github.com/dbchat/dbchat/internal/formatter"
	"github.com/dbchat/dbchat/internal/models"
	"github.com/dbchat/dbchat/internal/prompts"
	"github.com/dbchat/dbchat/internal/services"
	"github.com/dbchat/dbchat/internal/shared"
)

// Fallback messages shown instead of raw pipeline errors.
const (
	apologyMessage      = "Sorry, I couldn't find any data related to your question. Please try asking something else."
	tableMissingMessage = "I'm sorry, but I couldn't find the information you're looking for in the database."
)

// Answer contains everything one answered question produced.
type Answer struct {
	Question string              // The question as asked
	SQL      string              // Generated SQL, empty when the pipeline fell back
	Text     string              // Narrated answer or fallback message
	Results  *database.ResultSet // Query results, nil when no query ran
	Chart    string              // Rendered chart, empty when the question didn't chart
	Table    string              // Table the chart path selected
	Elapsed  time.Duration       // Wall time for the whole pipeline
	Fallback bool                // True when Text is a fallback rather than a narration
}

// Target is the queried database surface the engine needs. Implemented by
// [database.Database].
type Target interface {
	SchemaContext(ctx context.Context) (string, error)
	HasTable(ctx context.Context, table string) (bool, error)
	Query(ctx context.Context, query string, limit int, timeout time.Duration) (*database.ResultSet, error)
}

// Recorder persists answered questions to the history store.
type Recorder interface {
	Record(answer *Answer) error
}

// Engine defines the question-answering operation.
type Engine interface {
	// Ask answers one question against the connected database, emitting
	// progress through the channel when one is provided.
	Ask(ctx context.Context, progress chan<- ProgressUpdate, question string, history []models.ChatMessage) (*Answer, error)
}

// EngineOpts configures a ChatEngine.
type EngineOpts struct {
	RowLimit     int           // LIMIT injected into generated queries, 0 disables
	QueryTimeout time.Duration // Per-query deadline, 0 disables
	RateLimit    float64       // LLM requests per second, 0 means unlimited
	ChartWidth   int           // Chart dimensions, zero values use defaults
	ChartHeight  int
	Recorder     Recorder    // Optional history store
	Logger       *log.Logger // Optional, defaults to a stderr logger
}

// ChatEngine implements Engine against a language model provider and a
// target database.
type ChatEngine struct {
	provider services.Provider
	target   Target
	limiter  *rate.Limiter
	opts     EngineOpts
	logger   *log.Logger
}

// NewChatEngine creates a ChatEngine with the provided dependencies.
func NewChatEngine(provider services.Provider, target Target, opts EngineOpts) *ChatEngine {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ChatEngine{
		provider: provider,
		target:   target,
		limiter:  limiter,
		opts:     opts,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ChatEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// complete runs one rate-limited LLM call.
func (e *ChatEngine) complete(ctx context.Context, prompt string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	return e.provider.Complete(ctx, prompt)
}

// Ask answers one question end to end. Pipeline failures after
// classification fall back to an apology answer instead of an error, so a
// bad model query never kills an interactive session.
func (e *ChatEngine) Ask(ctx context.Context, progress chan<- ProgressUpdate, question string, history []models.ChatMessage) (*Answer, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: LLM provider not initialized", shared.ErrProviderDisabled)
	}
	if e.target == nil {
		return nil, fmt.Errorf("%w: target database not initialized", shared.ErrDatabaseUnavailable)
	}

	started := time.Now()
	answer := &Answer{Question: question}

	e.sendProgress(progress, classifyUpdate(1, 1))
	rawDecision, err := e.complete(ctx, prompts.BuildChartCheckPrompt(history, question))
	if err != nil {
		return nil, fmt.Errorf("chart classification failed: %w", err)
	}
	wantsChart := services.CleanBoolean(rawDecision)

	schema, err := e.target.SchemaContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	if wantsChart {
		e.askChart(ctx, progress, answer, schema, question, history)
	} else {
		e.askPlain(ctx, progress, answer, schema, question, history)
	}

	answer.Elapsed = time.Since(started)
	e.record(progress, answer)
	return answer, nil
}

// askPlain runs the non-chart path: generate SQL, execute, narrate.
func (e *ChatEngine) askPlain(ctx context.Context, progress chan<- ProgressUpdate, answer *Answer, schema, question string, history []models.ChatMessage) {
	e.sendProgress(progress, generateSQLUpdate(1, 3))
	rawSQL, err := e.complete(ctx, prompts.BuildSQLPrompt(schema, history, question))
	if err != nil {
		e.fallback(answer, "sql generation failed", err)
		return
	}
	answer.SQL = services.CleanSQL(rawSQL)
	e.sendProgress(progress, generatedSQLUpdate(1, 3, answer.SQL))

	e.sendProgress(progress, executeUpdate(2, 3))
	results, err := e.target.Query(ctx, answer.SQL, e.opts.RowLimit, e.opts.QueryTimeout)
	if err != nil {
		e.fallback(answer, "query failed", err)
		return
	}
	answer.Results = results
	e.sendProgress(progress, executedUpdate(2, 3, len(results.Rows)))

	e.sendProgress(progress, narrateUpdate(3, 3))
	narration, err := e.complete(ctx, prompts.BuildAnswerPrompt(schema, history, question, answer.SQL, formatter.RenderTable(results)))
	if err != nil {
		e.fallback(answer, "narration failed", err)
		return
	}
	answer.Text = narration
}

// askChart runs the chart path: pick a table, verify it exists, generate and
// run a query, then draw the results when they form a time series.
func (e *ChatEngine) askChart(ctx context.Context, progress chan<- ProgressUpdate, answer *Answer, schema, question string, history []models.ChatMessage) {
	e.sendProgress(progress, pickTableUpdate(1, 4))
	rawTable, err := e.complete(ctx, prompts.BuildTablePrompt(schema, history, question))
	if err != nil {
		e.fallback(answer, "table selection failed", err)
		return
	}
	table := services.CleanIdentifier(rawTable)

	exists, err := e.target.HasTable(ctx, table)
	if err != nil {
		e.fallback(answer, "table lookup failed", err)
		return
	}
	if !exists {
		e.logger.Warn("selected table does not exist", "table", table)
		answer.Text = tableMissingMessage
		answer.Fallback = true
		return
	}
	answer.Table = table
	e.sendProgress(progress, pickedTableUpdate(1, 4, table))

	e.sendProgress(progress, generateSQLUpdate(2, 4))
	rawSQL, err := e.complete(ctx, prompts.BuildSQLPrompt(schema, history, question))
	if err != nil {
		e.fallback(answer, "sql generation failed", err)
		return
	}
	answer.SQL = services.CleanSQL(rawSQL)
	e.sendProgress(progress, generatedSQLUpdate(2, 4, answer.SQL))

	e.sendProgress(progress, executeUpdate(3, 4))
	results, err := e.target.Query(ctx, answer.SQL, e.opts.RowLimit, e.opts.QueryTimeout)
	if err != nil {
		e.fallback(answer, "query failed", err)
		return
	}
	answer.Results = results
	e.sendProgress(progress, executedUpdate(3, 4, len(results.Rows)))

	if series, ok := formatter.DetectTimeSeries(results); ok {
		answer.Chart = formatter.RenderChart(series, e.opts.ChartWidth, e.opts.ChartHeight)
	}

	e.sendProgress(progress, narrateUpdate(4, 4))
	narration, err := e.complete(ctx, prompts.BuildAnswerPrompt(schema, history, question, answer.SQL, formatter.RenderTable(results)))
	if err != nil {
		e.fallback(answer, "narration failed", err)
		return
	}
	answer.Text = narration
}

// fallback logs the underlying failure and swaps in the apology answer.
func (e *ChatEngine) fallback(answer *Answer, msg string, err error) {
	e.logger.Warn(msg, "error", err)
	answer.Text = apologyMessage
	answer.Fallback = true
}

// record persists the answer when a history store is configured. Failures
// are logged, never surfaced: losing a history row shouldn't fail the ask.
func (e *ChatEngine) record(progress chan<- ProgressUpdate, answer *Answer) {
	if e.opts.Recorder == nil {
		return
	}

	e.sendProgress(progress, recordUpdate(1, 1))
	if err := e.opts.Recorder.Record(answer); err != nil {
		e.logger.Warn("failed to record exchange", "error", err)
	}
}
