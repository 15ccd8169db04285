package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	LLM     LLMConfig     `toml:"llm"`
	MySQL   MySQLConfig   `toml:"mysql"`
	History HistoryConfig `toml:"history"`
	Chat    ChatConfig    `toml:"chat"`
}

// LLMConfig selects and configures the language model backend.
type LLMConfig struct {
	Provider    string  `toml:"provider"` // "groq" or "ollama"
	GroqModel   string  `toml:"groq_model"`
	GroqAPIKey  string  `toml:"groq_api_key"` // falls back to GROQ_API_KEY env var
	OllamaURL   string  `toml:"ollama_url"`
	OllamaModel string  `toml:"ollama_model"`
	RateLimit   float64 `toml:"requests_per_second"`
}

// MySQLConfig contains connection settings for the target MySQL database.
type MySQLConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// HistoryConfig contains settings for the local conversation store.
type HistoryConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ChatConfig contains pipeline and TUI behavior settings.
type ChatConfig struct {
	RowLimit            int    `toml:"row_limit"`
	QueryTimeoutSeconds int    `toml:"query_timeout_seconds"`
	LogFile             string `toml:"log_file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads variables from a .env file in the working directory when one
// exists. A missing file is not an error; secrets can come from the real
// environment instead.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// GroqKey resolves the Groq API key from config or the GROQ_API_KEY
// environment variable, preferring the config value.
func (c *Config) GroqKey() string {
	if c.LLM.GroqAPIKey != "" {
		return c.LLM.GroqAPIKey
	}
	return os.Getenv("GROQ_API_KEY")
}
