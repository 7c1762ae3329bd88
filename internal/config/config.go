package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Root           string   // content root directory
	OutDir         string   // build output directory
	TitleCase      string   // none | first | title
	Workers        int      // concurrent tasks per content directory
	SkipDirs       []string // directory names left out of the content tree
	Sanitize       bool     // run rendered page bodies through the HTML sanitizer
	SearchDBPath   string   // optional SQLite export of the search index
	HighlightStyle string   // chroma style used for the generated stylesheet
	Addr           string   // dev server listen address
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the result.
// If a .env file exists in the current directory or one of its parents, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		Root:           getEnv("DOCSITE_ROOT", "docs"),
		OutDir:         getEnv("DOCSITE_OUT", "dist"),
		TitleCase:      getEnv("DOCSITE_TITLE_CASE", "first"),
		SearchDBPath:   getEnv("DOCSITE_SEARCH_DB", ""),
		HighlightStyle: getEnv("DOCSITE_HIGHLIGHT_STYLE", "github"),
		Addr:           getEnv("DOCSITE_ADDR", "127.0.0.1:8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		SkipDirs:       splitList(getEnv("DOCSITE_SKIP_DIRS", ".git")),
	}

	workers, err := strconv.Atoi(getEnv("DOCSITE_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("DOCSITE_WORKERS must be a valid integer: %w", err)
	}
	cfg.Workers = workers

	sanitize, err := strconv.ParseBool(getEnv("DOCSITE_SANITIZE", "false"))
	if err != nil {
		return nil, fmt.Errorf("DOCSITE_SANITIZE must be a boolean: %w", err)
	}
	cfg.Sanitize = sanitize

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values. It is called by Load and again after command
// line flags have been applied.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.OutDir, validation.Required),
		validation.Field(&c.TitleCase, validation.In("none", "first", "title")),
		validation.Field(&c.Workers, validation.Required, validation.Min(1)),
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// EnsureSearchDBDir creates the parent directory of the search database, if
// one is configured.
func (c *Config) EnsureSearchDBDir() error {
	if c.SearchDBPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.SearchDBPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
