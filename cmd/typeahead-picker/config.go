package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root picker configuration.
type Config struct {
	Backend    BackendConfig    `yaml:"backend"`
	Fields     FieldsConfig     `yaml:"fields"`
	Pagination PaginationConfig `yaml:"pagination"`
	Log        LogConfig        `yaml:"log"`
}

// BackendConfig describes the endpoint the picker fetches options from.
type BackendConfig struct {
	URL         string            `yaml:"url"`
	Paged       bool              `yaml:"paged"`
	Searchable  bool              `yaml:"searchable"`
	QueryParams map[string]string `yaml:"query_params"`
	Timeout     time.Duration     `yaml:"timeout"`
}

// FieldsConfig maps response fields onto the selector's value, label, and
// options collection. Paths are dotted, e.g. "data.results".
type FieldsConfig struct {
	ValuePath   string `yaml:"value_path"`
	LabelPath   string `yaml:"label_path"`
	OptionsPath string `yaml:"options_path"`
}

// PaginationConfig describes cursor pagination for paged backends.
type PaginationConfig struct {
	// CursorParam is the query parameter carrying the page cursor.
	CursorParam string `yaml:"cursor_param"`
	// NextCursorPath is the dotted path to the next cursor within one page
	// body. A page without a value at this path is the last page.
	NextCursorPath string `yaml:"next_cursor_path"`
}

// LogConfig describes picker logging. The TUI owns the terminal, so logs go
// to a file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			Searchable: true,
			Timeout:    10 * time.Second,
		},
		Fields: FieldsConfig{
			ValuePath: "id",
			LabelPath: "name",
		},
		Pagination: PaginationConfig{
			CursorParam:    "cursor",
			NextCursorPath: "data.next_cursor",
		},
		Log: LogConfig{
			Level: "info",
			File:  os.TempDir() + "/typeahead-picker.log",
		},
	}
}

// Load reads a YAML config file, applies environment variable overrides,
// and validates required fields.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if c.Fields.ValuePath == "" {
		return fmt.Errorf("fields.value_path is required")
	}
	if c.Backend.Paged {
		if c.Pagination.CursorParam == "" {
			return fmt.Errorf("pagination.cursor_param is required for a paged backend")
		}
		if c.Pagination.NextCursorPath == "" {
			return fmt.Errorf("pagination.next_cursor_path is required for a paged backend")
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	return nil
}

// applyEnvOverrides reads TYPEAHEAD_* environment variables and overrides
// config values where set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TYPEAHEAD_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("TYPEAHEAD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TYPEAHEAD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
