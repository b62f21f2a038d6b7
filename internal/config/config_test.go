package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Anki.URL != "http://localhost:8765" {
		t.Errorf("expected default anki url, got %q", cfg.Anki.URL)
	}
	if cfg.Anki.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", cfg.Anki.Timeout)
	}
	if cfg.Upload.BatchSize != 100 || !cfg.Upload.CheckDuplicates || cfg.Upload.DuplicatePolicy != "skip" {
		t.Errorf("unexpected upload defaults: %+v", cfg.Upload)
	}
	if cfg.Anki.Flag != 7 {
		t.Errorf("expected flag 7, got %d", cfg.Anki.Flag)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Setenv("ANKI_DUPLICATE_POLICY", "add_anyway")
	t.Setenv("ANKI_BATCH_SIZE", "25")
	t.Setenv("OBSIDIAN_VAULT_PATH", "/tmp/vault")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upload.DuplicatePolicy != "add_anyway" || cfg.Upload.BatchSize != 25 {
		t.Errorf("env overrides not applied: %+v", cfg.Upload)
	}
	if cfg.Obsidian.VaultPath != "/tmp/vault" {
		t.Errorf("expected vault path, got %q", cfg.Obsidian.VaultPath)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "learning.yaml")
	content := `
anki:
  url: http://anki.local:8765
  flag: 3
upload:
  deck: Physics
zotero:
  user_id: "42"
  api_key: k
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(PathEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Anki.URL != "http://anki.local:8765" || cfg.Anki.Flag != 3 {
		t.Errorf("yaml values not applied: %+v", cfg.Anki)
	}
	if cfg.Upload.Deck != "Physics" {
		t.Errorf("expected deck Physics, got %q", cfg.Upload.Deck)
	}
	if !cfg.Zotero.ZoteroWebEnabled() || cfg.Zotero.LibraryPath() != "users/42" {
		t.Errorf("expected web zotero for users/42, got %+v", cfg.Zotero)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv(PathEnv, filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Anki:   AnkiConfig{Flag: 7},
			Upload: UploadConfig{BatchSize: 100, DuplicatePolicy: "skip"},
			Log:    LogConfig{Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad policy", func(c *Config) { c.Upload.DuplicatePolicy = "merge" }, true},
		{"zero batch", func(c *Config) { c.Upload.BatchSize = 0 }, true},
		{"bad flag", func(c *Config) { c.Anki.Flag = 9 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/Zotero"); got != filepath.Join(home, "Zotero") {
		t.Errorf("unexpected expansion %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
}
