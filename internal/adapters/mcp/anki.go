package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/application/commands"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// AnkiTools holds what the note management tools share
type AnkiTools struct {
	Anki ports.AnkiClient
	// Flag is applied to updated notes unless the caller picks another
	Flag   int
	Logger *zap.Logger
}

// RegisterAnkiTools adds the Anki note management tools to the MCP server.
func RegisterAnkiTools(s *server.MCPServer, t AnkiTools) {
	if t.Logger == nil {
		t.Logger = zap.NewNop()
	}
	s.AddTool(checkConnectionTool(), checkConnectionHandler(t.Anki))
	s.AddTool(searchNotesTool(), searchNotesHandler(t.Anki))
	s.AddTool(updateNoteTool(), updateNoteHandler(t))
	s.AddTool(deleteNotesTool(), deleteNotesHandler(t.Anki))
	s.AddTool(moveCardsTool(), moveCardsHandler(t.Anki))
	s.AddTool(syncTool(), syncHandler(t.Anki))
	s.AddTool(listDecksTool(), listDecksHandler(t.Anki))
	s.AddTool(listModelsTool(), listModelsHandler(t.Anki))
}

// --- check_connection ---

func checkConnectionTool() mcp.Tool {
	return mcp.NewTool("anki_check_connection",
		mcp.WithDescription("Check that Anki is running with AnkiConnect and list its decks and note types."),
	)
}

func checkConnectionHandler(anki ports.AnkiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, err := commands.NewCheckConnectionCommand(anki).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(status, fmt.Sprintf("Connected to AnkiConnect v%d", status.Version))
	}
}

// --- search_notes ---

func searchNotesTool() mcp.Tool {
	return mcp.NewTool("anki_search_notes",
		mcp.WithDescription("Search Anki notes with Anki's query syntax, e.g. \"deck:Physics tag:exam\"."),
		mcp.WithString("query",
			mcp.Description("Anki search query"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum notes to return (default: %d)", commands.DefaultSearchLimit)),
		),
	)
}

func searchNotesHandler(anki ports.AnkiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewSearchNotesCommand(anki, req.GetString("query", ""), req.GetInt("limit", 0))
		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(res, fmt.Sprintf("Found %d notes, showing %d", res.TotalFound, len(res.Notes)))
	}
}

// --- update_note ---

func updateNoteTool() mcp.Tool {
	return mcp.NewTool("anki_update_note",
		mcp.WithDescription("Replace fields and optionally the tags of an existing note, then flag its cards."),
		mcp.WithNumber("note_id",
			mcp.Description("Id of the note to update"),
			mcp.Required(),
		),
		mcp.WithObject("fields",
			mcp.Description("Field names mapped to their new values, e.g. {\"Back\": \"...\"}"),
		),
		mcp.WithArray("tags",
			mcp.Description("New tag list, replacing the current one. Omit to keep the tags."),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("flag",
			mcp.Description("Flag set on the note's cards, 0 for none"),
		),
	)
}

func updateNoteHandler(t AnkiTools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fields, err := stringMap(req, "fields")
		if err != nil {
			return toolError(err)
		}
		var tags []string
		if hasArg(req, "tags") {
			tags = stringList(req, "tags")
			if tags == nil {
				tags = []string{}
			}
		}

		cmd := commands.NewUpdateNoteCommand(t.Anki, t.Logger,
			int64(req.GetInt("note_id", 0)), fields, tags, req.GetInt("flag", t.Flag))
		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(res, res.Message)
	}
}

// --- delete_notes ---

func deleteNotesTool() mcp.Tool {
	return mcp.NewTool("anki_delete_notes",
		mcp.WithDescription("Delete notes and all their cards. This cannot be undone."),
		mcp.WithArray("note_ids",
			mcp.Description("Ids of the notes to delete"),
			mcp.Required(),
			mcp.Items(map[string]any{"type": "number"}),
		),
	)
}

func deleteNotesHandler(anki ports.AnkiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := idList(req, "note_ids")
		if err != nil {
			return toolError(err)
		}
		msg, err := commands.NewDeleteNotesCommand(anki, ids).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(map[string]any{"note_ids": ids}, msg)
	}
}

// --- move_cards ---

func moveCardsTool() mcp.Tool {
	return mcp.NewTool("anki_move_cards",
		mcp.WithDescription("Move cards to another deck. Give card ids, or note ids to move all of their cards."),
		mcp.WithString("deck",
			mcp.Description("Destination deck"),
			mcp.Required(),
		),
		mcp.WithArray("card_ids",
			mcp.Description("Ids of the cards to move"),
			mcp.Items(map[string]any{"type": "number"}),
		),
		mcp.WithArray("note_ids",
			mcp.Description("Ids of notes whose cards should move, used when card_ids is empty"),
			mcp.Items(map[string]any{"type": "number"}),
		),
	)
}

func moveCardsHandler(anki ports.AnkiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cardIDs, err := idList(req, "card_ids")
		if err != nil {
			return toolError(err)
		}
		noteIDs, err := idList(req, "note_ids")
		if err != nil {
			return toolError(err)
		}
		res, err := commands.NewMoveCardsCommand(anki, req.GetString("deck", ""), cardIDs, noteIDs).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(res, res.Message)
	}
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("anki_sync",
		mcp.WithDescription("Sync the Anki collection with AnkiWeb."),
	)
}

func syncHandler(anki ports.AnkiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		msg, err := commands.NewSyncCommand(anki).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(nil, msg)
	}
}

// --- list_decks ---

func listDecksTool() mcp.Tool {
	return mcp.NewTool("anki_list_decks",
		mcp.WithDescription("List all Anki decks."),
	)
}

func listDecksHandler(anki ports.AnkiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		decks, err := commands.NewListDecksCommand(anki).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(decks, fmt.Sprintf("%d decks", len(decks)))
	}
}

// --- list_models ---

func listModelsTool() mcp.Tool {
	return mcp.NewTool("anki_list_models",
		mcp.WithDescription("List Anki note types with their field names."),
	)
}

func listModelsHandler(anki ports.AnkiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		models, err := commands.NewListModelsCommand(anki).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(models, fmt.Sprintf("%d note types", len(models)))
	}
}
