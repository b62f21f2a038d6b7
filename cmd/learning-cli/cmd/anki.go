package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xstraven/mcp-server-learning/internal/adapters/terminal"
	"github.com/xstraven/mcp-server-learning/internal/application/commands"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Inspect and manage the Anki collection",
	Long: `Commands that talk to Anki through AnkiConnect.

Examples:
  learning-cli anki check
  learning-cli anki search "deck:Physics tag:exam"
  learning-cli anki sync`,
}

var ankiCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the AnkiConnect connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := commands.NewCheckConnectionCommand(anki).Execute(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, terminal.Success.Render(fmt.Sprintf("✓ connected to AnkiConnect v%d", status.Version)))
		fmt.Fprintf(out, "%s %d\n", terminal.Label.Render("decks"), len(status.Decks))
		fmt.Fprintf(out, "%s %d\n", terminal.Label.Render("note types"), len(status.Models))
		return nil
	},
}

var ankiDecksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		decks, err := commands.NewListDecksCommand(anki).Execute(context.Background())
		if err != nil {
			return err
		}
		for _, d := range decks {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

var ankiModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List note types with their fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := commands.NewListModelsCommand(anki).Execute(context.Background())
		if err != nil {
			return err
		}
		for _, m := range models {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				terminal.Label.Render(m.Name), terminal.MutedText.Render(strings.Join(m.Fields, ", ")))
		}
		return nil
	},
}

var ankiSearchLimit int

var ankiSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes with Anki's query syntax",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewSearchNotesCommand(anki, args[0], ankiSearchLimit).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.TotalFound == 0 {
			fmt.Fprintln(out, "No notes found")
			return nil
		}
		for _, n := range res.Notes {
			fmt.Fprintf(out, "%s %s\n", terminal.Title.Render(fmt.Sprint(n.NoteID)), terminal.MutedText.Render(n.ModelName))
			names := make([]string, 0, len(n.Fields))
			for name := range n.Fields {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %s %s\n", terminal.Label.Render(name), n.Fields[name])
			}
		}
		fmt.Fprintln(out, terminal.MutedText.Render(fmt.Sprintf("showing %d of %d", len(res.Notes), res.TotalFound)))
		return nil
	},
}

var ankiSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the collection with AnkiWeb",
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := commands.NewSyncCommand(anki).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), terminal.Success.Render(msg))
		return nil
	},
}

func init() {
	ankiSearchCmd.Flags().IntVarP(&ankiSearchLimit, "limit", "n", commands.DefaultSearchLimit, "maximum notes to show")

	ankiCmd.AddCommand(ankiCheckCmd, ankiDecksCmd, ankiModelsCmd, ankiSearchCmd, ankiSyncCmd)
	rootCmd.AddCommand(ankiCmd)
}
