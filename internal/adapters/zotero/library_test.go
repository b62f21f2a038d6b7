package zotero

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/config"
)

func newProfile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	db, err := sql.Open("sqlite3", filepath.Join(dir, "zotero.sqlite"))
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE items (itemID INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return dir
}

func TestOpen(t *testing.T) {
	web := config.ZoteroConfig{APIKey: "k", UserID: "42", BaseURL: "http://localhost:1"}

	tests := []struct {
		name        string
		cfg         func(t *testing.T) config.ZoteroConfig
		wantBackend string
		wantErr     bool
	}{
		{
			name: "local preferred",
			cfg: func(t *testing.T) config.ZoteroConfig {
				c := web
				c.ProfilePath = newProfile(t)
				c.PreferLocal = true
				return c
			},
			wantBackend: "local",
		},
		{
			name: "web preferred over local",
			cfg: func(t *testing.T) config.ZoteroConfig {
				c := web
				c.ProfilePath = newProfile(t)
				return c
			},
			wantBackend: "web",
		},
		{
			name: "local only",
			cfg: func(t *testing.T) config.ZoteroConfig {
				return config.ZoteroConfig{ProfilePath: newProfile(t)}
			},
			wantBackend: "local",
		},
		{
			name: "web only",
			cfg: func(t *testing.T) config.ZoteroConfig {
				c := web
				c.ProfilePath = t.TempDir()
				c.PreferLocal = true
				return c
			},
			wantBackend: "web",
		},
		{
			name: "nothing configured",
			cfg: func(t *testing.T) config.ZoteroConfig {
				return config.ZoteroConfig{ProfilePath: t.TempDir()}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := Open(tt.cfg(t), zap.NewNop())
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNoBackend))
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { lib.Close() })

			assert.Equal(t, tt.wantBackend, lib.Name())
			assert.True(t, lib.Available()[tt.wantBackend])
		})
	}
}
