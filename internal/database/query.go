package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dbchat/dbchat/internal/shared"
)

// ResultSet holds the column-ordered output of one query, every cell
// rendered as a string.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the query returned no rows.
func (r *ResultSet) Empty() bool {
	return len(r.Rows) == 0
}

var (
	limitPattern = regexp.MustCompile(`(?i)\blimit\s+\d+`)
	writePattern = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|truncate|create|grant|revoke)\b`)
)

// IsReadOnly reports whether the statement is a plain SELECT or a CTE. The
// pipeline runs model-generated SQL, so anything else is rejected before
// it reaches the database.
func IsReadOnly(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if !strings.HasPrefix(q, "select") && !strings.HasPrefix(q, "with") {
		return false
	}
	// A single statement only; a second statement after the terminating
	// semicolon could smuggle in a write.
	if rest := strings.TrimSpace(strings.TrimSuffix(q, ";")); strings.Contains(rest, ";") {
		return false
	}
	// Write keywords anywhere in the statement fail the check, so a CTE
	// cannot smuggle one in. A SELECT naming such a word as an identifier
	// is rejected too; erring toward rejection is fine here.
	return !writePattern.MatchString(q)
}

// EnsureLimit appends a LIMIT clause when the statement has none, capping
// how much a runaway model query can pull back. Trailing line comments are
// dropped first so the clause lands in the statement, not in a comment.
func EnsureLimit(query string, limit int) string {
	if limit <= 0 {
		return query
	}
	query = stripTrailingComments(query)
	if limitPattern.MatchString(query) {
		return query
	}

	trimmed := strings.TrimRight(strings.TrimSpace(query), ";")
	return fmt.Sprintf("%s LIMIT %d;", trimmed, limit)
}

// stripTrailingComments removes -- line comments from the tail of the
// statement, including comment-only closing lines.
func stripTrailingComments(query string) string {
	lines := strings.Split(strings.TrimSpace(query), "\n")
	for len(lines) > 0 {
		last := lines[len(lines)-1]
		if idx := strings.Index(last, "--"); idx != -1 {
			last = last[:idx]
		}
		last = strings.TrimSpace(last)
		if last == "" {
			lines = lines[:len(lines)-1]
			continue
		}
		lines[len(lines)-1] = last
		break
	}
	return strings.Join(lines, "\n")
}

// Query runs a read-only statement with a deadline and scans every cell to
// a string. Rejects non-SELECT statements with [shared.ErrUnsafeQuery].
func (d *Database) Query(ctx context.Context, query string, limit int, timeout time.Duration) (*ResultSet, error) {
	if !IsReadOnly(query) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnsafeQuery, firstLine(query))
	}
	query = EnsureLimit(query, limit)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &ResultSet{Columns: columns}
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		targets := make([]any, len(columns))
		for i := range cells {
			targets[i] = &cells[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, cell := range cells {
			if cell.Valid {
				row[i] = cell.String
			} else {
				row[i] = "NULL"
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}
