package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
output: ./out
minify: true
api:
  key: mik_test
  secret: mis_test
venues:
  - id: venue-1
    name: Test Mall
  - id: venue-2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "./out" {
		t.Errorf("Output = %q, want ./out", cfg.Output)
	}
	if !cfg.Minify {
		t.Error("Minify = false, want true")
	}
	if cfg.API.Key != "mik_test" {
		t.Errorf("API.Key = %q", cfg.API.Key)
	}
	if len(cfg.Venues) != 2 || cfg.Venues[0].Name != "Test Mall" {
		t.Errorf("Venues = %+v", cfg.Venues)
	}
}

func TestLoad_DefaultOutput(t *testing.T) {
	path := writeConfig(t, `
api:
  key: mik_test
  secret: mis_test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "layers" {
		t.Errorf("Output = %q, want layers", cfg.Output)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "venues: [id: {")
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_VenueWithoutID(t *testing.T) {
	path := writeConfig(t, `
venues:
  - name: No ID
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for venue without id, got nil")
	}
}
