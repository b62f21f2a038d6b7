package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xstraven/mcp-server-learning/internal/adapters/editor"
	"github.com/xstraven/mcp-server-learning/internal/adapters/filesystem"
	"github.com/xstraven/mcp-server-learning/internal/adapters/obsidian"
	"github.com/xstraven/mcp-server-learning/internal/adapters/terminal"
	"github.com/xstraven/mcp-server-learning/internal/application/commands"
	"github.com/xstraven/mcp-server-learning/internal/config"
	"github.com/xstraven/mcp-server-learning/internal/domain"
)

var vaultPath string

// openVault opens the vault from --vault, falling back to the configured path
func openVault() (*filesystem.Vault, *obsidian.Opener, error) {
	root := vaultPath
	if root == "" {
		root = cfg.Obsidian.VaultPath
	}
	if root == "" {
		return nil, nil, domain.NewError(domain.KindInputInvalid, "vault", "no vault configured, pass --vault or set OBSIDIAN_VAULT_PATH")
	}
	root, err := filepath.Abs(config.ExpandHome(root))
	if err != nil {
		return nil, nil, err
	}
	opener := obsidian.NewOpener(root, "")
	vault, err := filesystem.NewVault(root, opener)
	if err != nil {
		return nil, nil, err
	}
	return vault, opener, nil
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Search and open notes in an Obsidian vault",
	Long: `Read-only access to an Obsidian vault.

Examples:
  learning-cli vault search entropy
  learning-cli vault open "Linear maps"
  learning-cli vault edit "Linear maps"
  learning-cli vault stats`,
}

var vaultSearchLimit int

var vaultSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes by content, title or tags",
	Long: `Search notes by content, title or tags.

Results are ranked by relevance using fuzzy matching.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, _, err := openVault()
		if err != nil {
			return err
		}
		results, err := commands.NewSearchVaultCommand(vault, args[0], nil, vaultSearchLimit).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found")
			return nil
		}
		for _, r := range results {
			line := fmt.Sprintf("%s %s", terminal.Title.Render(r.Note.Name), terminal.MutedText.Render(r.Note.Path))
			if len(r.Note.Tags) > 0 {
				line += " " + terminal.Label.Render("#"+strings.Join(r.Note.Tags, " #"))
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var vaultOpenCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Open a note in Obsidian",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, opener, err := openVault()
		if err != nil {
			return err
		}
		note, err := vault.GetNote(args[0])
		if err != nil {
			return err
		}
		if err := opener.OpenFile(filepath.Join(vault.Root(), filepath.FromSlash(note.Path))); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), terminal.Success.Render("opened "+note.Name))
		return nil
	},
}

var vaultEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a note in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, _, err := openVault()
		if err != nil {
			return err
		}
		note, err := vault.GetNote(args[0])
		if err != nil {
			return err
		}
		return editor.NewOpener().OpenFile(filepath.Join(vault.Root(), filepath.FromSlash(note.Path)))
	},
}

var vaultStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, _, err := openVault()
		if err != nil {
			return err
		}
		stats, err := vault.Stats()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, terminal.Title.Render(stats.VaultPath))
		fmt.Fprintf(out, "%s %d\n", terminal.Label.Render("notes"), stats.TotalNotes)
		fmt.Fprintf(out, "%s %d KB\n", terminal.Label.Render("size"), stats.TotalSizeBytes/1024)
		fmt.Fprintf(out, "%s %d\n", terminal.Label.Render("tags"), stats.TotalTags)
		for t, n := range stats.NoteTypes {
			fmt.Fprintf(out, "  %s %d\n", terminal.MutedText.Render(t), n)
		}
		return nil
	},
}

func init() {
	vaultCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "path to the vault (default from config)")
	vaultSearchCmd.Flags().IntVarP(&vaultSearchLimit, "limit", "n", 20, "maximum notes to show")

	vaultCmd.AddCommand(vaultSearchCmd, vaultOpenCmd, vaultEditCmd, vaultStatsCmd)
	rootCmd.AddCommand(vaultCmd)
}
