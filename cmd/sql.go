package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dbchat/dbchat/internal/formatter"
	"github.com/dbchat/dbchat/internal/shared"
)

// SQL runs a raw read-only statement against the target database and
// prints the result table. The same guards apply as for generated queries.
func (r *Runner) SQL(ctx context.Context, cmd *cli.Command) error {
	statement := strings.TrimSpace(cmd.StringArg("statement"))
	if statement == "" {
		return fmt.Errorf("%w: statement", shared.ErrMissingArgument)
	}

	target, err := r.ensureTarget(ctx)
	if err != nil {
		return err
	}

	limit := int(cmd.Int("limit"))
	timeout := time.Duration(r.config.Chat.QueryTimeoutSeconds) * time.Second

	results, err := target.Query(ctx, statement, limit, timeout)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"columns": results.Columns,
			"rows":    results.Rows,
		}, cmd.Bool("pretty"))
	}

	if results.Empty() {
		r.writePlain("(no rows)\n")
		return nil
	}

	r.writePlain("%s", formatter.RenderTable(results))
	r.writePlain("\n%d rows\n", len(results.Rows))
	return nil
}
