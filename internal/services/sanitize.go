package services

import (
	"strings"
)

// Model output rarely arrives clean: reasoning models leak <think> blocks,
// chat models wrap SQL in code fences or prefix it with commentary. The
// sanitizers below normalize completions before the pipeline trusts them.

// CleanSQL extracts a bare SQL statement from a model completion.
func CleanSQL(s string) string {
	s = stripThinkBlocks(strings.TrimSpace(s))

	// Strip SQL line comments the model sometimes appends
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "--"); idx != -1 {
			lines[i] = strings.TrimSpace(line[:idx])
		}
	}
	s = strings.TrimSpace(strings.Join(lines, "\n"))

	// If the model wrapped it in triple backticks, extract the fenced block
	if strings.Contains(s, "```") {
		for _, part := range strings.Split(s, "```") {
			trimmed := strings.TrimSpace(part)
			lowered := strings.ToLower(trimmed)
			if strings.HasPrefix(lowered, "sql") {
				return strings.TrimSpace(trimmed[3:])
			}
			if trimmed != "" && (strings.Contains(lowered, "select") || strings.Contains(lowered, "with")) {
				return trimmed
			}
		}
	}

	// Drop any preamble before the first SELECT or WITH
	lowered := strings.ToLower(s)
	for _, keyword := range []string{"select", "with"} {
		if idx := strings.Index(lowered, keyword); idx != -1 {
			return strings.TrimSpace(s[idx:])
		}
	}

	for _, prefix := range []string{"SQL:", "Sql:", "sql:", "SQL Query:"} {
		s = strings.TrimPrefix(s, prefix)
	}
	return strings.TrimSpace(s)
}

// CleanBoolean normalizes a yes/no classifier completion to true or false.
// Anything that doesn't clearly say true is treated as false.
func CleanBoolean(s string) bool {
	s = stripThinkBlocks(strings.TrimSpace(s))
	s = strings.Trim(s, "`\"'.! ")
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "boolean response:")
	s = strings.TrimSpace(s)

	return s == "true" || s == "yes" || strings.HasPrefix(s, "true")
}

// CleanIdentifier normalizes a completion expected to be a single identifier
// such as a table name: first word, no quoting, no trailing punctuation.
func CleanIdentifier(s string) string {
	s = stripThinkBlocks(strings.TrimSpace(s))
	s = strings.Trim(s, "`\"' ")

	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	return strings.Trim(s, "`\"'.,;")
}

// stripThinkBlocks removes <think>...</think> reasoning blocks.
func stripThinkBlocks(s string) string {
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			return s
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			// Open tag without a close; drop the rest
			return strings.TrimSpace(s[:start])
		}
		s = strings.TrimSpace(s[:start] + s[start+end+len("</think>"):])
	}
}
