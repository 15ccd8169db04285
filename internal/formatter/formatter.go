// package formatter renders query results for the terminal and exports
// answers to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/dbchat/dbchat/internal/database"
	"github.com/dbchat/dbchat/internal/shared"
)

// AnswerExport bundles everything one answered question produced, for the
// export writers below.
type AnswerExport struct {
	Question string
	Query    string
	Answer   string
	Results  *database.ResultSet
}

// RenderTable renders a ResultSet as a plain-text table with padded columns.
func RenderTable(rs *database.ResultSet) string {
	if rs == nil || len(rs.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(rs.Columns))
	for i, col := range rs.Columns {
		widths[i] = len(col)
	}
	for _, row := range rs.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var buf bytes.Buffer
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				buf.WriteString("  ")
			}
			buf.WriteString(cell)
			if pad := widths[i] - len(cell); pad > 0 && i < len(cells)-1 {
				buf.WriteString(strings.Repeat(" ", pad))
			}
		}
		buf.WriteString("\n")
	}

	writeRow(rs.Columns)
	separators := make([]string, len(rs.Columns))
	for i := range separators {
		separators[i] = strings.Repeat("-", widths[i])
	}
	writeRow(separators)
	for _, row := range rs.Rows {
		writeRow(row)
	}

	return buf.String()
}

// ExportToCSV converts a ResultSet to CSV with the query's columns as headers.
func ExportToCSV(rs *database.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(rs.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rs.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an answered question to a Markdown document with
// the narrated answer, the generated SQL, and the results as a table.
func ExportToMarkdown(export *AnswerExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Question))

	if export.Answer != "" {
		buf.WriteString(export.Answer)
		buf.WriteString("\n\n")
	}

	if export.Query != "" {
		buf.WriteString("## Query\n\n```sql\n")
		buf.WriteString(strings.TrimSpace(export.Query))
		buf.WriteString("\n```\n\n")
	}

	if export.Results != nil && !export.Results.Empty() {
		buf.WriteString("## Results\n\n")
		buf.WriteString(fmt.Sprintf("| %s |\n", strings.Join(export.Results.Columns, " | ")))

		separators := make([]string, len(export.Results.Columns))
		for i := range separators {
			separators[i] = "---"
		}
		buf.WriteString(fmt.Sprintf("| %s |\n", strings.Join(separators, " | ")))

		for _, row := range export.Results.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = strings.ReplaceAll(cell, "|", "\\|")
			}
			buf.WriteString(fmt.Sprintf("| %s |\n", strings.Join(cells, " | ")))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts an answered question to plain text: the answer
// followed by the rendered results table.
func ExportToText(export *AnswerExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Question: %s\n", export.Question))
	if export.Query != "" {
		buf.WriteString(fmt.Sprintf("Query: %s\n", strings.TrimSpace(export.Query)))
	}
	buf.WriteString("\n")

	if export.Answer != "" {
		buf.WriteString(export.Answer)
		buf.WriteString("\n")
	}

	if export.Results != nil && !export.Results.Empty() {
		buf.WriteString("\n")
		buf.WriteString(RenderTable(export.Results))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of the answer without the
// result rows.
func ToMetadataJSON(export *AnswerExport) ([]byte, error) {
	metadata := map[string]any{
		"question": export.Question,
		"query":    export.Query,
		"answer":   export.Answer,
	}
	if export.Results != nil {
		metadata["columns"] = export.Results.Columns
		metadata["rows"] = len(export.Results.Rows)
	}
	return shared.MarshalJSON(metadata, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ResultsFile  string
	MetadataFile string
}

// WriteCSVExport writes an answer's results to CSV with an accompanying
// metadata JSON file: {base}_results.csv and {base}_metadata.json.
func WriteCSVExport(export *AnswerExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "answer"
	}

	csvData, err := ExportToCSV(export.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	resultsFile := baseFilepath + "_results.csv"
	if err := os.WriteFile(resultsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ResultsFile:  resultsFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport writes an answer as a Markdown file at the given path,
// defaulting to answer.md.
func WriteMarkdownExport(export *AnswerExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = "answer.md"
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}
