package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbchat/dbchat/internal/shared"
)

// Column describes one column of an introspected table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Key      string
}

// Table describes one introspected table and its columns.
type Table struct {
	Name    string
	Columns []Column
}

// Tables lists the base tables of the connected schema in name order.
func (d *Database) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name`, d.name)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// HasTable reports whether the named table exists in the connected schema.
func (d *Database) HasTable(ctx context.Context, table string) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?`, d.name, table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}

// Describe introspects the named table's columns from information_schema.
func (d *Database) Describe(ctx context.Context, table string) (*Table, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT column_name, column_type, is_nullable, column_key
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`, d.name, table)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}
	defer rows.Close()

	t := &Table{Name: table}
	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Key); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = nullable == "YES"
		t.Columns = append(t.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrTableNotFound, table)
	}
	return t, nil
}

// SchemaContext renders every table as a CREATE TABLE statement. The result
// is interpolated into prompts so the model can see the schema.
func (d *Database) SchemaContext(ctx context.Context) (string, error) {
	names, err := d.Tables(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, name := range names {
		table, err := d.Describe(ctx, name)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(table.DDL())
	}
	return b.String(), nil
}

// DDL renders the table as a CREATE TABLE statement.
func (t *Table) DDL() string {
	var lines []string
	var primary []string

	for _, col := range t.Columns {
		line := fmt.Sprintf("  %s %s", col.Name, col.Type)
		if !col.Nullable {
			line += " NOT NULL"
		}
		lines = append(lines, line)

		if col.Key == "PRI" {
			primary = append(primary, col.Name)
		}
	}

	if len(primary) > 0 {
		lines = append(lines, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(primary, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", t.Name, strings.Join(lines, ",\n"))
}
