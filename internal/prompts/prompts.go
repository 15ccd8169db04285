// Package prompts builds the instruction text sent to language model
// providers. Each builder corresponds to one stage of the question
// pipeline: chart classification, table selection, SQL generation, and
// answer narration.
package prompts

import (
	"fmt"
	"strings"

	"github.com/dbchat/dbchat/internal/models"
)

const chartCheckTemplate = `You are a data analyst at a company. You are interacting with a user who is asking you questions about the company's database.
Decide whether answering the user's question calls for a chart. Take the conversation history into account.

Write only the Boolean Response and nothing else. Do not wrap the Boolean Response in any other text, not even backticks or space.

For example:
Question: Plot a histogram of countries showing GDP, using different colors for each bar.
Boolean Response:True
Question: Create a line chart of sales over time?
Boolean Response:True
Question: How many employees are there?
Boolean Response:False

Your turn:

Conversation History: %s

Question: %s
Boolean Response:`

const tableTemplate = `You are a data analyst at a company. You are interacting with a user who is asking you questions about the company's database.
Based on the table schema below, extract the table name that would answer the user's question. Take the conversation history into account.

<SCHEMA>%s</SCHEMA>

Conversation History: %s

Write only the table name and nothing else. Do not wrap the table name in any other text, not even backticks or space.

For example:
Question: which 3 artists have the most tracks?
Table:Track
Question: Name 10 artists
Table:Artist

Your turn:

Question: %s
Table:`

const sqlTemplate = `You are a data analyst at a company. You are interacting with a user who is asking you questions about the company's database.
Based on the table schema below, write a SQL query that would answer the user's question. Take the conversation history into account.

<SCHEMA>%s</SCHEMA>

Conversation History: %s

Write only the SQL query and nothing else. Do not wrap the SQL query in any other text, not even backticks.

For example:
Question: which 3 artists have the most tracks?
SQL Query: SELECT ArtistId, COUNT(*) as track_count FROM Track GROUP BY ArtistId ORDER BY track_count DESC LIMIT 3;
Question: Name 10 artists
SQL Query: SELECT Name FROM Artist LIMIT 10;

Your turn:

Question: %s
SQL Query:`

const answerTemplate = `You are a data analyst at a company. You are interacting with a user who is asking you questions about the company's database.
Based on the table schema below, question, sql query, and sql response, write a natural language response.
<SCHEMA>%s</SCHEMA>

Conversation History: %s
SQL Query: <SQL>%s</SQL>
User question: %s
SQL Response: %s`

// BuildChartCheckPrompt asks the model whether the question wants a chart.
// The model is expected to answer with a bare True or False.
func BuildChartCheckPrompt(history []models.ChatMessage, question string) string {
	return fmt.Sprintf(chartCheckTemplate, FormatHistory(history), question)
}

// BuildTablePrompt asks the model to name the single table most relevant
// to the question.
func BuildTablePrompt(schema string, history []models.ChatMessage, question string) string {
	return fmt.Sprintf(tableTemplate, schema, FormatHistory(history), question)
}

// BuildSQLPrompt asks the model to write a SQL query answering the question
// against the given schema.
func BuildSQLPrompt(schema string, history []models.ChatMessage, question string) string {
	return fmt.Sprintf(sqlTemplate, schema, FormatHistory(history), question)
}

// BuildAnswerPrompt asks the model to narrate the query results as a
// natural language answer.
func BuildAnswerPrompt(schema string, history []models.ChatMessage, question, query, response string) string {
	return fmt.Sprintf(answerTemplate, schema, FormatHistory(history), query, question, response)
}

// FormatHistory renders prior exchanges as role-prefixed lines. An empty
// history renders as "(none)" so templates never interpolate a blank.
func FormatHistory(history []models.ChatMessage) string {
	if len(history) == 0 {
		return "(none)"
	}

	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.Role {
		case models.RoleUser:
			b.WriteString("Human: ")
		default:
			b.WriteString("AI: ")
		}
		b.WriteString(msg.Content)
	}
	return b.String()
}
