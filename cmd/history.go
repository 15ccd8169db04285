package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dbchat/dbchat/internal/repositories"
	"github.com/dbchat/dbchat/internal/shared"
)

// HistoryList lists stored conversations, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.ensureHistory()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if limit := int(cmd.Int("limit")); limit > 0 {
		criteria["limit"] = limit
	}
	if title := cmd.String("title"); title != "" {
		criteria["title"] = title
	}

	conversations, err := repositories.NewConversationRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if cmd.Bool("json") {
		items := make([]map[string]any, 0, len(conversations))
		for _, c := range conversations {
			items = append(items, map[string]any{
				"id":         c.ID(),
				"title":      c.Title(),
				"created_at": c.CreatedAt().Format(time.RFC3339),
			})
		}
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	if len(conversations) == 0 {
		r.writePlain("No conversations recorded yet.\n")
		return nil
	}

	r.writePlainHeader("Conversations")
	for _, c := range conversations {
		r.writePlain("%s  %s  %s\n", c.ID(), c.CreatedAt().Format("2006-01-02 15:04"), c.Title())
	}
	return nil
}

// HistoryShow prints every exchange of one conversation.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: conversation id", shared.ErrMissingArgument)
	}

	db, err := r.ensureHistory()
	if err != nil {
		return err
	}

	conversation, err := repositories.NewConversationRepository(db).Get(id)
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}

	exchanges, err := repositories.NewExchangeRepository(db).List(map[string]any{
		"conversation_id": id,
	})
	if err != nil {
		return fmt.Errorf("failed to load exchanges: %w", err)
	}

	if cmd.Bool("json") {
		items := make([]map[string]any, 0, len(exchanges))
		for _, e := range exchanges {
			items = append(items, map[string]any{
				"question":   e.Question(),
				"sql":        e.GeneratedSQL(),
				"answer":     e.Answer(),
				"rows":       e.RowCount(),
				"charted":    e.Charted(),
				"elapsed_ms": e.Elapsed().Milliseconds(),
				"created_at": e.CreatedAt().Format(time.RFC3339),
			})
		}
		return r.writeJSON(map[string]any{
			"id":        conversation.ID(),
			"title":     conversation.Title(),
			"exchanges": items,
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(conversation.Title())
	for _, e := range exchanges {
		r.writePlain("You: %s\n", e.Question())
		if e.GeneratedSQL() != "" && cmd.Bool("sql") {
			r.writePlain("SQL: %s\n", e.GeneratedSQL())
		}
		r.writePlain("AI:  %s\n\n", e.Answer())
	}
	return nil
}

// HistoryClear soft-deletes one conversation, or every conversation with --all.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.ensureHistory()
	if err != nil {
		return err
	}

	conversations := repositories.NewConversationRepository(db)
	exchanges := repositories.NewExchangeRepository(db)

	if cmd.Bool("all") {
		all, err := conversations.List(nil)
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}
		for _, c := range all {
			if err := exchanges.DeleteByConversation(c.ID()); err != nil {
				return fmt.Errorf("failed to clear exchanges: %w", err)
			}
			if err := conversations.Delete(c.ID()); err != nil {
				return fmt.Errorf("failed to clear conversation: %w", err)
			}
		}
		r.logger.Info("cleared history", "conversations", len(all))
		return nil
	}

	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: conversation id (or --all)", shared.ErrMissingArgument)
	}

	if err := exchanges.DeleteByConversation(id); err != nil {
		return fmt.Errorf("failed to clear exchanges: %w", err)
	}
	if err := conversations.Delete(id); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	r.logger.Info("cleared conversation", "id", id)
	return nil
}
