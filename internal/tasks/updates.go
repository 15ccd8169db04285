package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Classify Phase = iota
	PickTable
	GenerateSQL
	Execute
	Narrate
	Record
)

func (p Phase) String() string {
	switch p {
	case Classify:
		return "classify"
	case PickTable:
		return "pick_table"
	case GenerateSQL:
		return "generate_sql"
	case Execute:
		return "execute"
	case Narrate:
		return "narrate"
	case Record:
		return "record"
	default:
		return ""
	}
}

func classifyUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Classify,
		Step:    step,
		Total:   total,
		Message: "Deciding whether this needs a chart...",
	}
}

func pickTableUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PickTable,
		Step:    step,
		Total:   total,
		Message: "Picking the relevant table...",
	}
}

func pickedTableUpdate(step, total int, table string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PickTable,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Charting from table: %s", table),
		Data:    table,
	}
}

func generateSQLUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateSQL,
		Step:    step,
		Total:   total,
		Message: "Writing a SQL query...",
	}
}

func generatedSQLUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateSQL,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Generated: %s", query),
		Data:    query,
	}
}

func executeUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Execute,
		Step:    step,
		Total:   total,
		Message: "Running the query...",
	}
}

func executedUpdate(step, total, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Execute,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Query returned %d rows", rows),
	}
}

func narrateUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Narrate,
		Step:    step,
		Total:   total,
		Message: "Writing the answer...",
	}
}

func recordUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Record,
		Step:    step,
		Total:   total,
		Message: "Saving to history...",
	}
}
