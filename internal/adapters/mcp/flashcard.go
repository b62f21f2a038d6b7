package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/adapters/render"
	"github.com/xstraven/mcp-server-learning/internal/application"
	"github.com/xstraven/mcp-server-learning/internal/application/commands"
	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// FlashcardTools holds what the flashcard tools share
type FlashcardTools struct {
	Anki     ports.AnkiClient
	Defaults commands.UploadOptions
	Logger   *zap.Logger
}

// RegisterFlashcardTools adds the card generation, upload and preview tools to the MCP server.
func RegisterFlashcardTools(s *server.MCPServer, t FlashcardTools) {
	if t.Logger == nil {
		t.Logger = zap.NewNop()
	}
	s.AddTool(createCardsTool(), createCardsHandler())
	s.AddTool(uploadCardsTool(), uploadCardsHandler(t))
	s.AddTool(previewCardsTool(), previewCardsHandler())
}

// cardView is a card as tools report it
type cardView struct {
	Type     string   `json:"type"`
	Front    string   `json:"front,omitempty"`
	Back     string   `json:"back,omitempty"`
	Text     string   `json:"text,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	NoteType string   `json:"note_type,omitempty"`
}

func cardViews(cards []domain.Card) []cardView {
	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, cardView{
			Type:     c.Kind.String(),
			Front:    c.Front,
			Back:     c.Back,
			Text:     c.Text,
			Tags:     c.Tags,
			NoteType: c.NoteType,
		})
	}
	return views
}

func cardTextOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("text",
			mcp.Description("Study text. Front/back cards: Q:/A: pairs, or front and back separated by a newline with cards separated by blank lines or ---. Cloze cards: mark deletions with {{double braces}}. LaTeX math in $...$ or $$...$$ is converted for the target."),
			mcp.Required(),
		),
		mcp.WithString("card_type",
			mcp.Description("Card type: basic (front/back) or cloze"),
			mcp.Enum("basic", "cloze"),
			mcp.DefaultString("basic"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags added to every card"),
		),
		mcp.WithString("note_type",
			mcp.Description("Anki note type to use instead of the default for the card type"),
		),
	}
}

// generate parses the shared card arguments for target
func generate(ctx context.Context, req mcp.CallToolRequest, target domain.Target) (*commands.GenerateResult, error) {
	kind, err := application.ParseCardKind(req.GetString("card_type", "basic"))
	if err != nil {
		return nil, err
	}
	cmd := commands.NewGenerateCommand(req.GetString("text", ""), kind, target)
	cmd.Tags = stringList(req, "tags")
	cmd.NoteType = req.GetString("note_type", "")
	return cmd.Execute(ctx)
}

// --- create_cards ---

func createCardsTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Parse study text into flashcards and return them without uploading."),
		mcp.WithString("target",
			mcp.Description("Who reads the cards: chat (MathJax delimiters), anki or preview"),
			mcp.Enum("chat", "anki", "preview"),
			mcp.DefaultString("chat"),
		),
	}, cardTextOptions()...)
	return mcp.NewTool("flashcard_create_cards", opts...)
}

func createCardsHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := generate(ctx, req, application.ParseTarget(req.GetString("target", "chat")))
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(map[string]any{
			"cards":     cardViews(res.Cards),
			"card_type": res.Kind.String(),
			"target":    res.Target.String(),
			"count":     len(res.Cards),
		}, res.Message)
	}
}

// --- upload_cards ---

func uploadCardsTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Parse study text into flashcards and add them to an Anki deck through AnkiConnect. The deck is created when missing."),
		mcp.WithString("deck",
			mcp.Description("Target deck, defaults to the configured deck"),
		),
		mcp.WithBoolean("check_duplicates",
			mcp.Description("Ask Anki which cards already exist before adding"),
		),
		mcp.WithString("duplicate_policy",
			mcp.Description("What to do with duplicates: skip them or add_anyway"),
			mcp.Enum(string(domain.DuplicateSkip), string(domain.DuplicateAddAnyway)),
		),
		mcp.WithNumber("flag",
			mcp.Description("Flag set on created cards, 0 for none, 1-7 for red, orange, green, blue, pink, cyan, purple"),
		),
	}, cardTextOptions()...)
	return mcp.NewTool("flashcard_upload_cards", opts...)
}

func uploadCardsHandler(t FlashcardTools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		gen, err := generate(ctx, req, domain.TargetAnki)
		if err != nil {
			return toolError(err)
		}
		if len(gen.Cards) == 0 {
			return toolError(fmt.Errorf("%w: %s", application.ErrNothingGenerated, gen.Message))
		}

		opts := t.Defaults
		opts.DeckName = req.GetString("deck", opts.DeckName)
		opts.CheckDuplicates = req.GetBool("check_duplicates", opts.CheckDuplicates)
		opts.Flag = req.GetInt("flag", opts.Flag)
		if hasArg(req, "duplicate_policy") {
			policy, err := application.ParseDuplicatePolicy(req.GetString("duplicate_policy", ""))
			if err != nil {
				return toolError(err)
			}
			opts.DuplicatePolicy = policy
		}

		cmd := commands.NewUploadCommand(t.Anki, t.Logger, gen.Cards, opts)
		res, err := cmd.Execute(ctx)
		if err != nil {
			if res == nil {
				return toolError(err)
			}
			return toolFailure(res, err.Error())
		}
		if !res.Success {
			return toolFailure(res, res.Error)
		}
		return toolSuccess(res, uploadMessage(res))
	}
}

func uploadMessage(r *domain.UploadBatchResult) string {
	msg := fmt.Sprintf("Uploaded %d of %d cards to %s", r.SuccessfulUploads, r.TotalCards, r.DeckName)
	if n := r.Skipped(); n > 0 {
		msg += fmt.Sprintf(", skipped %d duplicates", n)
	}
	if r.FailedUploads > 0 {
		msg += fmt.Sprintf(", %d failed", r.FailedUploads)
	}
	return msg
}

// --- preview_cards ---

func previewCardsTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Render study text as a standalone HTML page of flashcards with MathJax, for review before uploading."),
		mcp.WithString("title",
			mcp.Description("Page title"),
			mcp.DefaultString(render.DefaultTitle),
		),
	}, cardTextOptions()...)
	return mcp.NewTool("flashcard_preview_cards", opts...)
}

func previewCardsHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		gen, err := generate(ctx, req, domain.TargetPreview)
		if err != nil {
			return toolError(err)
		}
		if len(gen.Cards) == 0 {
			return toolError(fmt.Errorf("%w: %s", application.ErrNothingGenerated, gen.Message))
		}

		page, err := render.Preview(req.GetString("title", ""), gen.Cards)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(map[string]any{
			"html":  page,
			"count": len(gen.Cards),
		}, gen.Message)
	}
}
