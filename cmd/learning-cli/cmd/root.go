package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/adapters/ankiconnect"
	"github.com/xstraven/mcp-server-learning/internal/application/commands"
	"github.com/xstraven/mcp-server-learning/internal/config"
	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/logging"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

var (
	cfg    *config.Config
	logger *zap.Logger
	anki   ports.AnkiClient
)

var rootCmd = &cobra.Command{
	Use:   "learning-cli",
	Short: "Turn study material into Anki flashcards",
	Long: `learning-cli parses study text into flashcards, previews them and
uploads them to Anki through AnkiConnect.

It also searches a Zotero library and an Obsidian vault, the same sources
the learning-mcp server exposes to assistants.

Configuration comes from learning.yaml (or $LEARNING_CONFIG), .env and
the environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = logging.Must(cfg.Log.Level, "console")
		anki = ankiconnect.NewClient(ankiconnect.NewInvoker(cfg.Anki.URL,
			ankiconnect.WithAPIKey(cfg.Anki.APIKey),
			ankiconnect.WithTimeout(cfg.Anki.Timeout),
			ankiconnect.WithLogger(logger),
		))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// uploadDefaults returns the configured upload options
func uploadDefaults() commands.UploadOptions {
	return commands.UploadOptions{
		DeckName:        cfg.Upload.Deck,
		Tags:            cfg.Upload.Tags,
		CheckDuplicates: cfg.Upload.CheckDuplicates,
		DuplicatePolicy: domain.DuplicatePolicy(cfg.Upload.DuplicatePolicy),
		BatchSize:       cfg.Upload.BatchSize,
		Flag:            cfg.Anki.Flag,
	}
}

// readInput returns the text of the file named by args, or stdin when
// there is no argument or it is "-"
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
