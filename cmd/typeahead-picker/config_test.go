package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "picker.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_appliesDefaults(t *testing.T) {
	path := writeConfig(t, "backend:\n  url: http://backend/items\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://backend/items" {
		t.Errorf("url = %q", cfg.Backend.URL)
	}
	if cfg.Fields.ValuePath != "id" || cfg.Fields.LabelPath != "name" {
		t.Errorf("field defaults not applied: %+v", cfg.Fields)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("timeout default = %v", cfg.Backend.Timeout)
	}
	if !cfg.Backend.Searchable {
		t.Error("searchable should default to true")
	}
}

func TestLoad_envOverrides(t *testing.T) {
	path := writeConfig(t, "backend:\n  url: http://from-file\n")
	t.Setenv("TYPEAHEAD_BACKEND_URL", "http://from-env")
	t.Setenv("TYPEAHEAD_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://from-env" {
		t.Errorf("env override lost, url = %q", cfg.Backend.URL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_validation(t *testing.T) {
	cases := map[string]string{
		"missing url":                "fields:\n  value_path: id\n",
		"paged without cursor param": "backend:\n  url: http://b\n  paged: true\npagination:\n  cursor_param: \"\"\n",
		"bad log level":              "backend:\n  url: http://b\nlog:\n  level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load("/nonexistent/picker.yaml"); err == nil {
		t.Error("expected read error")
	}
}
