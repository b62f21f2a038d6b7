// Package zotero picks the Zotero backend the tools read from
package zotero

import (
	"errors"

	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/adapters/sqlite"
	"github.com/xstraven/mcp-server-learning/internal/adapters/zoteroweb"
	"github.com/xstraven/mcp-server-learning/internal/config"
	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// ErrNoBackend is returned when neither a local database nor web credentials are available
var ErrNoBackend = domain.NewError(domain.KindNotFound, "zotero",
	"no Zotero access method available, set ZOTERO_API_KEY with ZOTERO_USER_ID or ZOTERO_GROUP_ID, or install Zotero locally")

// Library is the selected ReferenceLibrary plus the backends that were found
type Library struct {
	ports.ReferenceLibrary

	local *sqlite.ZoteroReader
	web   *zoteroweb.Client
}

// Open sets up every configured backend and selects one: the local
// database when prefer_local is set and it opens, else the web API, else
// whichever exists.
func Open(cfg config.ZoteroConfig, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lib := &Library{}

	if path := cfg.LocalDatabasePath(); path != "" {
		r, err := sqlite.OpenZotero(path)
		if err != nil {
			logger.Warn("local zotero database unavailable", zap.String("path", path), zap.Error(err))
		} else {
			lib.local = r
		}
	}

	if cfg.ZoteroWebEnabled() {
		c, err := zoteroweb.NewClient(cfg.APIKey, cfg.LibraryPath(),
			zoteroweb.WithBaseURL(cfg.BaseURL),
			zoteroweb.WithTimeout(cfg.Timeout),
			zoteroweb.WithLogger(logger),
		)
		if err != nil {
			lib.Close()
			return nil, err
		}
		lib.web = c
	}

	switch {
	case lib.local != nil && (cfg.PreferLocal || lib.web == nil):
		lib.ReferenceLibrary = lib.local
	case lib.web != nil:
		lib.ReferenceLibrary = lib.web
	default:
		return nil, ErrNoBackend
	}

	logger.Info("zotero backend selected",
		zap.String("backend", lib.Name()),
		zap.Bool("local_available", lib.local != nil),
		zap.Bool("web_available", lib.web != nil),
	)
	return lib, nil
}

// Available reports which backends could be set up, keyed "local" and "web"
func (l *Library) Available() map[string]bool {
	return map[string]bool{
		"local": l.local != nil,
		"web":   l.web != nil,
	}
}

// Close releases the local database, if one was opened
func (l *Library) Close() error {
	var errs []error
	if l.local != nil {
		errs = append(errs, l.local.Close())
	}
	return errors.Join(errs...)
}
