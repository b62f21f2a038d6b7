package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// Config is the root configuration shared by the MCP server and the CLI
type Config struct {
	Anki     AnkiConfig     `yaml:"anki"`
	Upload   UploadConfig   `yaml:"upload"`
	Zotero   ZoteroConfig   `yaml:"zotero"`
	Obsidian ObsidianConfig `yaml:"obsidian"`
	Log      LogConfig      `yaml:"log"`
}

// AnkiConfig holds AnkiConnect settings
type AnkiConfig struct {
	URL     string        `yaml:"url"     env:"ANKI_CONNECT_URL"     env-default:"http://localhost:8765"`
	APIKey  string        `yaml:"api_key" env:"ANKI_CONNECT_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"ANKI_CONNECT_TIMEOUT" env-default:"10s"`
	// Flag marks uploaded cards, 0 disables flagging
	Flag int `yaml:"flag" env:"ANKI_FLAG" env-default:"7"`
}

// UploadConfig holds defaults for flashcard uploads
type UploadConfig struct {
	Deck            string   `yaml:"deck"             env:"ANKI_DEFAULT_DECK"       env-default:"MCP Generated"`
	Tags            []string `yaml:"tags"             env:"ANKI_DEFAULT_TAGS"       env-default:"mcp-generated" env-separator:","`
	BatchSize       int      `yaml:"batch_size"       env:"ANKI_BATCH_SIZE"         env-default:"100"`
	CheckDuplicates bool     `yaml:"check_duplicates" env:"ANKI_CHECK_DUPLICATES"   env-default:"true"`
	DuplicatePolicy string   `yaml:"duplicate_policy" env:"ANKI_DUPLICATE_POLICY"   env-default:"skip"`
}

// ZoteroConfig holds Zotero access settings. Either a local profile or web
// API credentials enable the Zotero tools.
type ZoteroConfig struct {
	APIKey      string        `yaml:"api_key"      env:"ZOTERO_API_KEY"`
	UserID      string        `yaml:"user_id"      env:"ZOTERO_USER_ID"`
	GroupID     string        `yaml:"group_id"     env:"ZOTERO_GROUP_ID"`
	ProfilePath string        `yaml:"profile_path" env:"ZOTERO_PROFILE_PATH"`
	PreferLocal bool          `yaml:"prefer_local" env:"ZOTERO_PREFER_LOCAL" env-default:"true"`
	BaseURL     string        `yaml:"base_url"     env:"ZOTERO_BASE_URL"     env-default:"https://api.zotero.org"`
	Timeout     time.Duration `yaml:"timeout"      env:"ZOTERO_TIMEOUT"      env-default:"15s"`
}

// ObsidianConfig holds the vault location
type ObsidianConfig struct {
	VaultPath string `yaml:"vault_path" env:"OBSIDIAN_VAULT_PATH"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Validate checks values that would otherwise fail late, at upload time
func (c *Config) Validate() error {
	if !domain.DuplicatePolicy(c.Upload.DuplicatePolicy).Valid() {
		return fmt.Errorf("upload.duplicate_policy: must be %q or %q, got %q",
			domain.DuplicateSkip, domain.DuplicateAddAnyway, c.Upload.DuplicatePolicy)
	}
	if c.Upload.BatchSize < 1 {
		return fmt.Errorf("upload.batch_size: must be positive, got %d", c.Upload.BatchSize)
	}
	if !domain.ValidFlag(c.Anki.Flag) {
		return fmt.Errorf("anki.flag: must be between 0 and 7, got %d", c.Anki.Flag)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format: must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// ZoteroWebEnabled reports whether web API credentials are present
func (z ZoteroConfig) ZoteroWebEnabled() bool {
	return z.APIKey != "" && (z.UserID != "" || z.GroupID != "")
}

// LibraryPath returns the web API library prefix, users/<id> or groups/<id>
func (z ZoteroConfig) LibraryPath() string {
	if z.UserID != "" {
		return "users/" + z.UserID
	}
	if z.GroupID != "" {
		return "groups/" + z.GroupID
	}
	return ""
}

// LocalDatabasePath returns the zotero.sqlite path, searching the usual
// profile locations when none is configured. Empty when nothing exists.
func (z ZoteroConfig) LocalDatabasePath() string {
	var candidates []string
	if z.ProfilePath != "" {
		candidates = append(candidates, ExpandHome(z.ProfilePath))
	} else {
		candidates = append(candidates, ExpandHome("~/Zotero"), ExpandHome("~/.zotero/zotero"))
	}
	for _, dir := range candidates {
		p := filepath.Join(dir, "zotero.sqlite")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
