package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dbchat/dbchat/internal/formatter"
	"github.com/dbchat/dbchat/internal/shared"
	"github.com/dbchat/dbchat/internal/tasks"
)

// askResult is the JSON shape emitted by `ask --json`.
type askResult struct {
	Question  string     `json:"question"`
	SQL       string     `json:"sql,omitempty"`
	Answer    string     `json:"answer"`
	Table     string     `json:"table,omitempty"`
	Columns   []string   `json:"columns,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	Charted   bool       `json:"charted"`
	Fallback  bool       `json:"fallback"`
	ElapsedMS int64      `json:"elapsed_ms"`
}

// Ask answers a single question and prints the narrated answer, the SQL,
// and the result table.
func (r *Runner) Ask(ctx context.Context, cmd *cli.Command) error {
	question := strings.TrimSpace(cmd.StringArg("question"))
	if question == "" {
		return fmt.Errorf("%w: question", shared.ErrMissingArgument)
	}

	engine, err := r.ensureEngine(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	answer, err := engine.Ask(ctx, progress, question, nil)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		result := askResult{
			Question:  answer.Question,
			SQL:       answer.SQL,
			Answer:    answer.Text,
			Table:     answer.Table,
			Charted:   answer.Chart != "",
			Fallback:  answer.Fallback,
			ElapsedMS: answer.Elapsed.Milliseconds(),
		}
		if answer.Results != nil {
			result.Columns = answer.Results.Columns
			result.Rows = answer.Results.Rows
		}
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", answer.Text)

	if cmd.Bool("sql") && answer.SQL != "" {
		r.writePlainln("SQL: %s", answer.SQL)
	}

	if answer.Chart != "" {
		r.writePlainln("%s", answer.Chart)
	} else if cmd.Bool("table") && answer.Results != nil && !answer.Results.Empty() {
		r.writePlainln("%s", formatter.RenderTable(answer.Results))
	}

	return r.export(cmd, answer)
}

// export writes the answer to disk when an export flag was given.
func (r *Runner) export(cmd *cli.Command, answer *tasks.Answer) error {
	exportable := &formatter.AnswerExport{
		Question: answer.Question,
		Query:    answer.SQL,
		Answer:   answer.Text,
		Results:  answer.Results,
	}

	if base := cmd.String("csv"); base != "" {
		if answer.Results == nil {
			return fmt.Errorf("%w: nothing to export", shared.ErrEmptyResult)
		}
		result, err := formatter.WriteCSVExport(exportable, base)
		if err != nil {
			return err
		}
		r.logger.Info("exported answer", "results", result.ResultsFile, "metadata", result.MetadataFile)
	}

	if path := cmd.String("markdown"); path != "" {
		written, err := formatter.WriteMarkdownExport(exportable, path)
		if err != nil {
			return err
		}
		r.logger.Info("exported answer", "file", written)
	}

	return nil
}
