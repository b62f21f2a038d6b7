package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/xstraven/mcp-server-learning/internal/adapters/editor"
	"github.com/xstraven/mcp-server-learning/internal/adapters/render"
	"github.com/xstraven/mcp-server-learning/internal/adapters/terminal"
	"github.com/xstraven/mcp-server-learning/internal/application"
	"github.com/xstraven/mcp-server-learning/internal/application/commands"
	"github.com/xstraven/mcp-server-learning/internal/domain"
)

var (
	cardType string
	cardTags string
	noteType string
	cardEdit bool
)

// cardTemplate seeds the editor when --edit is given without input
const cardTemplate = `Q: 
A: 
`

// generateCards parses the input with the shared card flags
func generateCards(cmd *cobra.Command, args []string, target domain.Target) (*commands.GenerateResult, error) {
	var text string
	var err error
	switch {
	case cardEdit && len(args) == 0:
		text, err = editor.NewOpener().EditText(cardTemplate)
	case cardEdit:
		if text, err = readInput(cmd, args); err == nil {
			text, err = editor.NewOpener().EditText(text)
		}
	default:
		text, err = readInput(cmd, args)
	}
	if err != nil {
		return nil, err
	}
	kind, err := application.ParseCardKind(cardType)
	if err != nil {
		return nil, err
	}
	gen := commands.NewGenerateCommand(text, kind, target)
	gen.Tags = splitTags(cardTags)
	gen.NoteType = noteType
	return gen.Execute(context.Background())
}

func addCardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cardType, "type", "t", "basic", "card type: basic or cloze")
	cmd.Flags().StringVar(&cardTags, "tags", "", "comma-separated tags added to every card")
	cmd.Flags().StringVar(&noteType, "note-type", "", "Anki note type overriding the default for the card type")
	cmd.Flags().BoolVarP(&cardEdit, "edit", "e", false, "edit the input in $EDITOR before parsing")
}

var (
	generateTarget string
	generateCopy   bool
	generateJSON   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Parse study text into flashcards",
	Long: `Parse study text into flashcards and print them. Reads stdin when no
file is given.

Examples:
  learning-cli generate notes.md
  learning-cli generate --type cloze --copy chapter3.txt
  pbpaste | learning-cli generate --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := generateCards(cmd, args, application.ParseTarget(generateTarget))
		if err != nil {
			return err
		}
		if len(res.Cards) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), terminal.WarningMsg.Render(res.Message))
			return nil
		}

		out := cmd.OutOrStdout()
		if generateJSON {
			body, err := json.MarshalIndent(res.Cards, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(body))
		} else {
			fmt.Fprintln(out, terminal.Cards(res.Cards))
			fmt.Fprintln(out, terminal.MutedText.Render(res.Message))
		}

		if generateCopy {
			body, err := json.MarshalIndent(res.Cards, "", "  ")
			if err != nil {
				return err
			}
			if err := clipboard.WriteAll(string(body)); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), terminal.Success.Render("cards copied to clipboard"))
		}
		return nil
	},
}

var (
	uploadDeck       string
	uploadNoDupCheck bool
	uploadPolicy     string
	uploadFlag       int
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload flashcards to Anki",
	Long: `Parse study text into flashcards and add them to an Anki deck through
AnkiConnect. The deck is created when missing. Reads stdin when no file is
given.

Examples:
  learning-cli upload --deck Physics notes.md
  learning-cli upload --type cloze --policy add_anyway cloze.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := generateCards(cmd, args, domain.TargetAnki)
		if err != nil {
			return err
		}
		if len(res.Cards) == 0 {
			return fmt.Errorf("%w: %s", application.ErrNothingGenerated, res.Message)
		}

		opts := uploadDefaults()
		if uploadDeck != "" {
			opts.DeckName = uploadDeck
		}
		if uploadNoDupCheck {
			opts.CheckDuplicates = false
		}
		if uploadPolicy != "" {
			policy, err := application.ParseDuplicatePolicy(uploadPolicy)
			if err != nil {
				return err
			}
			opts.DuplicatePolicy = policy
		}
		if cmd.Flags().Changed("flag") {
			opts.Flag = uploadFlag
		}

		result, err := commands.NewUploadCommand(anki, logger, res.Cards, opts).Execute(context.Background())
		if result != nil {
			fmt.Fprintln(cmd.OutOrStdout(), terminal.UploadSummary(result))
		}
		if err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("upload failed: %s", result.Error)
		}
		return nil
	},
}

var (
	previewOut   string
	previewTitle string
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render flashcards as an HTML page",
	Long: `Render study text as a standalone HTML page of flashcards with MathJax.
Writes to stdout unless --out is given.

Examples:
  learning-cli preview notes.md --out cards.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := generateCards(cmd, args, domain.TargetPreview)
		if err != nil {
			return err
		}
		if len(res.Cards) == 0 {
			return fmt.Errorf("%w: %s", application.ErrNothingGenerated, res.Message)
		}

		page, err := render.Preview(previewTitle, res.Cards)
		if err != nil {
			return err
		}
		if previewOut == "" {
			fmt.Fprint(cmd.OutOrStdout(), page)
			return nil
		}
		if err := os.WriteFile(previewOut, []byte(page), 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), terminal.Success.Render(fmt.Sprintf("wrote %d cards to %s", len(res.Cards), previewOut)))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, uploadCmd, previewCmd} {
		addCardFlags(c)
		rootCmd.AddCommand(c)
	}

	generateCmd.Flags().StringVar(&generateTarget, "target", "chat", "math delimiters for: chat, anki or preview")
	generateCmd.Flags().BoolVarP(&generateCopy, "copy", "c", false, "copy the cards as JSON to the clipboard")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "print the cards as JSON")

	uploadCmd.Flags().StringVarP(&uploadDeck, "deck", "d", "", "target deck (default from config)")
	uploadCmd.Flags().BoolVar(&uploadNoDupCheck, "no-duplicate-check", false, "add cards without asking Anki about duplicates")
	uploadCmd.Flags().StringVar(&uploadPolicy, "policy", "", "duplicate policy: skip or add_anyway")
	uploadCmd.Flags().IntVar(&uploadFlag, "flag", 0, "flag for created cards, 0-7 (default from config)")

	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "write the page to this file")
	previewCmd.Flags().StringVar(&previewTitle, "title", render.DefaultTitle, "page title")
}
