// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/dbchat/dbchat/internal/database"
)

// MockProvider is a test double for [services.Provider]. Completions are
// served from the queue in order; when the queue runs dry the last entry
// repeats. Err, when set, fails every call.
type MockProvider struct {
	Completions []string
	Err         error
	Calls       []string // Prompts received, in order
}

func (m *MockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	m.Calls = append(m.Calls, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Completions) == 0 {
		return "", errors.New("mock provider has no completions")
	}

	idx := len(m.Calls) - 1
	if idx >= len(m.Completions) {
		idx = len(m.Completions) - 1
	}
	return m.Completions[idx], nil
}

func (m *MockProvider) Model() string { return "mock-model" }
func (m *MockProvider) Name() string  { return "mock" }

// MockTarget is a test double for the engine's database surface.
type MockTarget struct {
	Schema    string
	SchemaErr error
	Tables    map[string]bool
	TablesErr error
	Results   *database.ResultSet
	QueryErr  error
	Queries   []string // Statements received, in order
}

func (m *MockTarget) SchemaContext(ctx context.Context) (string, error) {
	return m.Schema, m.SchemaErr
}

func (m *MockTarget) HasTable(ctx context.Context, table string) (bool, error) {
	if m.TablesErr != nil {
		return false, m.TablesErr
	}
	return m.Tables[table], nil
}

func (m *MockTarget) Query(ctx context.Context, query string, limit int, timeout time.Duration) (*database.ResultSet, error) {
	m.Queries = append(m.Queries, query)
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	if m.Results != nil {
		return m.Results, nil
	}
	return &database.ResultSet{}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
