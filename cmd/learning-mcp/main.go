package main

import (
	"context"
	"errors"
	"log"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/adapters/ankiconnect"
	"github.com/xstraven/mcp-server-learning/internal/adapters/filesystem"
	mcpadapter "github.com/xstraven/mcp-server-learning/internal/adapters/mcp"
	"github.com/xstraven/mcp-server-learning/internal/adapters/obsidian"
	"github.com/xstraven/mcp-server-learning/internal/adapters/zotero"
	"github.com/xstraven/mcp-server-learning/internal/application/commands"
	"github.com/xstraven/mcp-server-learning/internal/config"
	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/logging"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("learning-mcp: %v", err)
	}

	logger := logging.Must(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = logger.Sync() }()

	anki := ankiconnect.NewClient(ankiconnect.NewInvoker(cfg.Anki.URL,
		ankiconnect.WithAPIKey(cfg.Anki.APIKey),
		ankiconnect.WithTimeout(cfg.Anki.Timeout),
		ankiconnect.WithLogger(logger),
	))

	mcpServer := server.NewMCPServer(
		"learning-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Turn study material into Anki flashcards. Generate cards with flashcard_create_cards, review them with flashcard_preview_cards and upload with flashcard_upload_cards. Zotero and Obsidian tools are available when configured."),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterFlashcardTools(mcpServer, mcpadapter.FlashcardTools{
		Anki: anki,
		Defaults: commands.UploadOptions{
			DeckName:        cfg.Upload.Deck,
			Tags:            cfg.Upload.Tags,
			CheckDuplicates: cfg.Upload.CheckDuplicates,
			DuplicatePolicy: domain.DuplicatePolicy(cfg.Upload.DuplicatePolicy),
			BatchSize:       cfg.Upload.BatchSize,
			Flag:            cfg.Anki.Flag,
		},
		Logger: logger,
	})
	mcpadapter.RegisterAnkiTools(mcpServer, mcpadapter.AnkiTools{
		Anki:   anki,
		Flag:   cfg.Anki.Flag,
		Logger: logger,
	})

	lib, err := zotero.Open(cfg.Zotero, logger)
	switch {
	case err == nil:
		defer func() { _ = lib.Close() }()
		mcpadapter.RegisterZoteroTools(mcpServer, lib)
	case errors.Is(err, zotero.ErrNoBackend):
		logger.Info("zotero tools disabled, set ZOTERO_PROFILE_PATH or ZOTERO_API_KEY with a library id")
	default:
		logger.Warn("zotero tools disabled", zap.Error(err))
	}

	if cfg.Obsidian.VaultPath == "" {
		logger.Info("obsidian tools disabled, set OBSIDIAN_VAULT_PATH")
	} else if vault, err := openVault(cfg.Obsidian.VaultPath); err != nil {
		logger.Warn("obsidian tools disabled", zap.String("vault", cfg.Obsidian.VaultPath), zap.Error(err))
	} else {
		mcpadapter.RegisterObsidianTools(mcpServer, vault)
	}

	logger.Info("serving MCP over stdio", zap.String("version", version), zap.String("anki_url", cfg.Anki.URL))
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal("learning-mcp stopped", zap.Error(err))
	}
}

// openVault opens the vault with an opener building obsidian:// links for its notes
func openVault(path string) (*filesystem.Vault, error) {
	root, err := filepath.Abs(config.ExpandHome(path))
	if err != nil {
		return nil, err
	}
	return filesystem.NewVault(root, obsidian.NewOpener(root, ""))
}
