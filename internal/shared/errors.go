package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig    = fmt.Errorf("configuration not found")
	ErrInvalidConfig    = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey    = fmt.Errorf("missing API key")
	ErrUnknownProvider  = fmt.Errorf("unknown LLM provider")
	ErrProviderDisabled = fmt.Errorf("LLM provider not configured")

	// Provider and pipeline errors
	ErrProviderRequest = fmt.Errorf("LLM request failed")
	ErrEmptyCompletion = fmt.Errorf("empty completion from model")
	ErrNoAnswer        = fmt.Errorf("no answer produced")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// Database errors
	ErrDatabaseUnavailable = fmt.Errorf("database unavailable")
	ErrUnsafeQuery         = fmt.Errorf("query is not read-only")
	ErrTableNotFound       = fmt.Errorf("table not found")
	ErrEmptyResult         = fmt.Errorf("query returned no rows")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
