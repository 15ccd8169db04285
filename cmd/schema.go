package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Schema prints the introspected schema of the target database, the same
// text the pipeline hands to the language model.
func (r *Runner) Schema(ctx context.Context, cmd *cli.Command) error {
	target, err := r.ensureTarget(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		names, err := target.Tables(ctx)
		if err != nil {
			return err
		}

		tables := make([]map[string]any, 0, len(names))
		for _, name := range names {
			table, err := target.Describe(ctx, name)
			if err != nil {
				return err
			}

			columns := make([]map[string]any, 0, len(table.Columns))
			for _, col := range table.Columns {
				columns = append(columns, map[string]any{
					"name":     col.Name,
					"type":     col.Type,
					"nullable": col.Nullable,
					"key":      col.Key,
				})
			}
			tables = append(tables, map[string]any{"name": name, "columns": columns})
		}
		return r.writeJSON(tables, cmd.Bool("pretty"))
	}

	schema, err := target.SchemaContext(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", schema)
	return nil
}
