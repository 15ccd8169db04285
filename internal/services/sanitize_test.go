package services

import "testing"

func TestCleanSQL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Bare Statement",
			in:   "SELECT Name FROM Artist LIMIT 10;",
			want: "SELECT Name FROM Artist LIMIT 10;",
		},
		{
			name: "Code Fence With Language Tag",
			in:   "```sql\nSELECT Name FROM Artist;\n```",
			want: "SELECT Name FROM Artist;",
		},
		{
			name: "Code Fence Without Tag",
			in:   "```\nSELECT Name FROM Artist;\n```",
			want: "SELECT Name FROM Artist;",
		},
		{
			name: "Preamble Before Statement",
			in:   "Here is the query you asked for:\nSELECT COUNT(*) FROM Invoice;",
			want: "SELECT COUNT(*) FROM Invoice;",
		},
		{
			name: "SQL Prefix Label",
			in:   "SQL: SELECT 1;",
			want: "SELECT 1;",
		},
		{
			name: "Think Block",
			in:   "<think>walk the schema first</think>\nSELECT Total FROM Invoice;",
			want: "SELECT Total FROM Invoice;",
		},
		{
			name: "Line Comments",
			in:   "-- top artists\nSELECT Name FROM Artist; -- trailing",
			want: "SELECT Name FROM Artist;",
		},
		{
			name: "CTE Preserved",
			in:   "```sql\nWITH totals AS (SELECT 1) SELECT * FROM totals;\n```",
			want: "WITH totals AS (SELECT 1) SELECT * FROM totals;",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanSQL(tc.in); got != tc.want {
				t.Errorf("CleanSQL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanBoolean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"True", "True", true},
		{"Lowercase True", "true", true},
		{"True With Punctuation", "True.", true},
		{"Yes", "Yes", true},
		{"False", "False", false},
		{"Verbose Denial", "No, this does not need a chart.", false},
		{"Empty", "", false},
		{"Think Block Then True", "<think>there is a date column</think>\nTrue", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanBoolean(tc.in); got != tc.want {
				t.Errorf("CleanBoolean(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanIdentifier(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"Bare Name", "Invoice", "Invoice"},
		{"Quoted", `"Invoice"`, "Invoice"},
		{"Backticked", "`Invoice`", "Invoice"},
		{"With Trailing Prose", "Invoice is the most relevant table", "Invoice"},
		{"Surrounding Whitespace", "  Album  ", "Album"},
		{"Trailing Period", "Album.", "Album"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanIdentifier(tc.in); got != tc.want {
				t.Errorf("CleanIdentifier(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
