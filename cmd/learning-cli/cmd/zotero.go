package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/xstraven/mcp-server-learning/internal/adapters/terminal"
	"github.com/xstraven/mcp-server-learning/internal/adapters/zotero"
	"github.com/xstraven/mcp-server-learning/internal/domain"
)

var zoteroLimit int

// withLibrary opens the configured Zotero library for the duration of fn
func withLibrary(fn func(ctx context.Context, lib *zotero.Library) error) error {
	lib, err := zotero.Open(cfg.Zotero, logger)
	if err != nil {
		return err
	}
	defer func() { _ = lib.Close() }()
	return fn(context.Background(), lib)
}

func printItems(out io.Writer, items []domain.ZoteroItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No items found")
		return
	}
	for _, it := range items {
		fmt.Fprintf(out, "%s %s\n", terminal.Title.Render(it.Key), domain.FormatAPA(it))
	}
}

var zoteroCmd = &cobra.Command{
	Use:   "zotero",
	Short: "Browse the Zotero library",
	Long: `Read-only access to a Zotero library, through the local zotero.sqlite
when a profile is found or the Zotero web API when credentials are set.

Examples:
  learning-cli zotero search "attention is all you need"
  learning-cli zotero item ABCD1234 --copy`,
}

var zoteroSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search items by title, creator or field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(func(ctx context.Context, lib *zotero.Library) error {
			items, err := lib.SearchItems(ctx, args[0], zoteroLimit)
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

var zoteroRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently modified items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(func(ctx context.Context, lib *zotero.Library) error {
			items, err := lib.RecentItems(ctx, zoteroLimit, 0)
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

var zoteroCopy bool

var zoteroItemCmd = &cobra.Command{
	Use:   "item <key>",
	Short: "Show an item with its citation and notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(func(ctx context.Context, lib *zotero.Library) error {
			item, err := lib.GetItem(ctx, args[0])
			if err != nil {
				return err
			}
			notes, err := lib.ItemNotes(ctx, item.Key)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			citation := domain.FormatAPA(*item)
			fmt.Fprintln(out, terminal.Title.Render(item.Title))
			fmt.Fprintf(out, "%s %s\n", terminal.Label.Render("type"), item.ItemType)
			fmt.Fprintf(out, "%s %s\n", terminal.Label.Render("cite"), citation)
			if len(item.Tags) > 0 {
				fmt.Fprintf(out, "%s %v\n", terminal.Label.Render("tags"), item.Tags)
			}
			for _, n := range notes {
				fmt.Fprintf(out, "%s %s\n", terminal.MutedText.Render("note"), n.Title)
			}

			if zoteroCopy {
				if err := clipboard.WriteAll(citation); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), terminal.Success.Render("citation copied to clipboard"))
			}
			return nil
		})
	},
}

var zoteroCollectionsCmd = &cobra.Command{
	Use:   "collections [key]",
	Short: "List collections, or the items of one collection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(func(ctx context.Context, lib *zotero.Library) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				items, err := lib.CollectionItems(ctx, args[0], zoteroLimit)
				if err != nil {
					return err
				}
				printItems(out, items)
				return nil
			}

			collections, err := lib.Collections(ctx)
			if err != nil {
				return err
			}
			for _, c := range collections {
				line := fmt.Sprintf("%s %s", terminal.Title.Render(c.Key), c.Name)
				if c.ParentKey != "" {
					line += terminal.MutedText.Render(" in " + c.ParentKey)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		})
	},
}

func init() {
	zoteroCmd.PersistentFlags().IntVarP(&zoteroLimit, "limit", "n", 25, "maximum items to show")
	zoteroItemCmd.Flags().BoolVarP(&zoteroCopy, "copy", "c", false, "copy the APA citation to the clipboard")

	zoteroCmd.AddCommand(zoteroSearchCmd, zoteroRecentCmd, zoteroItemCmd, zoteroCollectionsCmd)
	rootCmd.AddCommand(zoteroCmd)
}
