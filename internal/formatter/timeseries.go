package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/dbchat/dbchat/internal/database"
)

// Point is one observation of a time series.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is a chartable time series extracted from a ResultSet.
type Series struct {
	Label  string
	Points []Point
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"Jan 2006",
	"January 2006",
}

// parseTime tries the layouts a MySQL date or date-ish expression commonly
// stringifies to. Bare integers only count as years within a plausible
// range, so count columns don't get mistaken for dates.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NULL" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if year, err := strconv.Atoi(s); err == nil && year >= 1900 && year <= 2200 {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NULL" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// DetectTimeSeries extracts a Series when the results chart cleanly: some
// column parses as time on every row, another parses as a number. The first
// qualifying pair wins. Returns false when no such pair exists or there are
// fewer than two rows.
func DetectTimeSeries(rs *database.ResultSet) (*Series, bool) {
	if rs == nil || len(rs.Columns) < 2 || len(rs.Rows) < 2 {
		return nil, false
	}

	timeCol := -1
	for c := range rs.Columns {
		ok := true
		for _, row := range rs.Rows {
			if _, parsed := parseTime(row[c]); !parsed {
				ok = false
				break
			}
		}
		if ok {
			timeCol = c
			break
		}
	}
	if timeCol == -1 {
		return nil, false
	}

	valueCol := -1
	for c := range rs.Columns {
		if c == timeCol {
			continue
		}
		ok := true
		for _, row := range rs.Rows {
			if _, parsed := parseNumber(row[c]); !parsed {
				ok = false
				break
			}
		}
		if ok {
			valueCol = c
			break
		}
	}
	if valueCol == -1 {
		return nil, false
	}

	series := &Series{Label: rs.Columns[valueCol]}
	for _, row := range rs.Rows {
		t, _ := parseTime(row[timeCol])
		v, _ := parseNumber(row[valueCol])
		series.Points = append(series.Points, Point{Time: t, Value: v})
	}
	return series, true
}
