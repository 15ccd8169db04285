package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/dbchat/dbchat/internal/database"
	"github.com/dbchat/dbchat/internal/models"
	"github.com/dbchat/dbchat/internal/repositories"
	"github.com/dbchat/dbchat/internal/services"
	"github.com/dbchat/dbchat/internal/shared"
	"github.com/dbchat/dbchat/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	provider services.Provider
	target   *database.Database
	history  *sql.DB
	logger   *log.Logger
	output   io.Writer
	engine   tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Provider services.Provider
	Target   *database.Database
	History  *sql.DB
	Logger   *log.Logger
	Output   io.Writer
	Engine   tasks.Engine
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:   opts.Config,
		provider: opts.Provider,
		target:   opts.Target,
		history:  opts.History,
		logger:   opts.Logger,
		output:   opts.Output,
		engine:   opts.Engine,
	}
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, askCommand, sqlCommand, schemaCommand, historyCommand, chatCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureProvider lazily constructs the configured LLM client.
func (r *Runner) ensureProvider() (services.Provider, error) {
	if r.provider != nil {
		return r.provider, nil
	}

	provider, err := services.NewProvider(r.config)
	if err != nil {
		return nil, err
	}
	r.provider = provider
	return provider, nil
}

// ensureTarget lazily connects to the MySQL database being queried.
func (r *Runner) ensureTarget(ctx context.Context) (*database.Database, error) {
	if r.target != nil {
		return r.target, nil
	}

	target, err := database.Open(ctx, r.config.MySQL)
	if err != nil {
		return nil, err
	}
	r.target = target
	return target, nil
}

// ensureHistory lazily opens the local SQLite history store. A missing or
// broken store is reported to the caller; whether that is fatal depends on
// the command.
func (r *Runner) ensureHistory() (*sql.DB, error) {
	if r.history != nil {
		return r.history, nil
	}

	db, err := shared.NewHistoryDB(r.config.History.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.History.MaxOpenConns, r.config.History.MaxIdleConns)

	r.history = db
	return db, nil
}

// ensureEngine lazily assembles the question pipeline with a best-effort
// history recorder attached.
func (r *Runner) ensureEngine(ctx context.Context) (tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	provider, err := r.ensureProvider()
	if err != nil {
		return nil, err
	}
	target, err := r.ensureTarget(ctx)
	if err != nil {
		return nil, err
	}

	var recorder tasks.Recorder
	if history, err := r.ensureHistory(); err != nil {
		r.logger.Warn("history store unavailable, exchanges won't be saved", "error", err)
	} else {
		recorder = newHistoryRecorder(history, r.logger)
	}

	r.engine = tasks.NewChatEngine(provider, target, tasks.EngineOpts{
		RowLimit:     r.config.Chat.RowLimit,
		QueryTimeout: time.Duration(r.config.Chat.QueryTimeoutSeconds) * time.Second,
		RateLimit:    r.config.LLM.RateLimit,
		Recorder:     recorder,
		Logger:       r.logger,
	})
	return r.engine, nil
}

// historyRecorder persists answered questions as exchanges, creating a
// conversation on first use.
type historyRecorder struct {
	conversations  *repositories.ConversationRepository
	exchanges      *repositories.ExchangeRepository
	conversationID string
	logger         *log.Logger
}

func newHistoryRecorder(db *sql.DB, logger *log.Logger) *historyRecorder {
	return &historyRecorder{
		conversations: repositories.NewConversationRepository(db),
		exchanges:     repositories.NewExchangeRepository(db),
		logger:        logger,
	}
}

// Record implements [tasks.Recorder].
func (h *historyRecorder) Record(answer *tasks.Answer) error {
	if h.conversationID == "" {
		conversation := models.NewConversation(0, conversationTitle(answer.Question))
		if err := h.conversations.Create(conversation); err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}
		h.conversationID = conversation.ID()
	}

	exchange := models.NewExchange(0, h.conversationID, answer.Question, answer.SQL, answer.Text)
	rowCount := 0
	if answer.Results != nil {
		rowCount = len(answer.Results.Rows)
	}
	exchange.SetExecution(rowCount, answer.Chart != "", answer.Elapsed)

	if err := h.exchanges.Create(exchange); err != nil {
		return fmt.Errorf("failed to save exchange: %w", err)
	}
	return nil
}

// conversationTitle derives a short title from the opening question.
// Truncation counts runes so a multi-byte question can't produce an
// invalid-UTF-8 title.
func conversationTitle(question string) string {
	title := strings.TrimSpace(question)
	if runes := []rune(title); len(runes) > 60 {
		title = string(runes[:57]) + "..."
	}
	if title == "" {
		title = "Untitled conversation"
	}
	return title
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
