package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xstraven/mcp-server-learning/internal/application"
	"github.com/xstraven/mcp-server-learning/internal/application/commands"
	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

const defaultNoteLimit = 20

// RegisterObsidianTools adds the read-only vault tools to the MCP server.
func RegisterObsidianTools(s *server.MCPServer, vault ports.NoteVault) {
	s.AddTool(listNotesTool(), listNotesHandler(vault))
	s.AddTool(getNoteTool(), getNoteHandler(vault))
	s.AddTool(searchVaultTool(), searchVaultHandler(vault))
	s.AddTool(notesByTagTool(), notesByTagHandler(vault))
	s.AddTool(backlinksTool(), backlinksHandler(vault))
	s.AddTool(orphanedNotesTool(), orphanedNotesHandler(vault))
	s.AddTool(vaultStatsTool(), vaultStatsHandler(vault))
	s.AddTool(flashcardContentTool(), flashcardContentHandler(vault))
}

// noteSummary is a note without its body, for listings
type noteSummary struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Path     string    `json:"path"`
	Tags     []string  `json:"tags"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size"`
	Links    int       `json:"links"`
	URI      string    `json:"uri,omitempty"`
	Score    int       `json:"score,omitempty"`
}

func summarize(n domain.Note) noteSummary {
	return noteSummary{
		Name:     n.Name,
		Title:    n.Title,
		Path:     n.Path,
		Tags:     n.Tags,
		Modified: n.Modified,
		Size:     n.Size,
		Links:    len(n.Wikilinks),
		URI:      n.URI,
	}
}

func summaries(notes []domain.Note) []noteSummary {
	out := make([]noteSummary, 0, len(notes))
	for _, n := range notes {
		out = append(out, summarize(n))
	}
	return out
}

// --- list_notes ---

func listNotesTool() mcp.Tool {
	return mcp.NewTool("obsidian_list_notes",
		mcp.WithDescription("List vault notes, most recently modified first."),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum notes to return (default: %d)", defaultNoteLimit)),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of notes to skip, for paging"),
		),
	)
}

func listNotesHandler(vault ports.NoteVault) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		notes, err := vault.ListNotes(req.GetInt("limit", defaultNoteLimit), req.GetInt("offset", 0))
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(summaries(notes), fmt.Sprintf("%d notes", len(notes)))
	}
}

// --- get_note ---

func getNoteTool() mcp.Tool {
	return mcp.NewTool("obsidian_get_note",
		mcp.WithDescription("Read a note with its frontmatter, tags, links and headers."),
		mcp.WithString("name",
			mcp.Description("Note name without extension, or its path inside the vault"),
			mcp.Required(),
		),
	)
}

func getNoteHandler(vault ports.NoteVault) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note, err := vault.GetNote(req.GetString("name", ""))
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(note, note.Title)
	}
}

// --- search_notes ---

func searchVaultTool() mcp.Tool {
	return mcp.NewTool("obsidian_search_notes",
		mcp.WithDescription("Search notes by content, title or tags. Results are ranked, best match first."),
		mcp.WithString("query",
			mcp.Description("Search text, at least 2 characters"),
			mcp.Required(),
		),
		mcp.WithArray("search_in",
			mcp.Description("Where to look: content, title, tags. All three when omitted."),
			mcp.WithStringItems(mcp.Enum("content", "title", "tags")),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum notes to return (default: %d)", defaultNoteLimit)),
		),
	)
}

func searchVaultHandler(vault ports.NoteVault) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if err := application.ValidateRequired("query", query); err != nil {
			return toolError(err)
		}

		cmd := commands.NewSearchVaultCommand(vault, query, stringList(req, "search_in"), req.GetInt("limit", defaultNoteLimit))
		results, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		out := make([]noteSummary, 0, len(results))
		for _, r := range results {
			s := summarize(r.Note)
			s.Score = r.Score
			out = append(out, s)
		}
		return toolSuccess(out, fmt.Sprintf("Found %d notes matching %q", len(out), query))
	}
}

// --- notes_by_tag ---

func notesByTagTool() mcp.Tool {
	return mcp.NewTool("obsidian_notes_by_tag",
		mcp.WithDescription("List notes carrying a tag, from frontmatter or inline #tags."),
		mcp.WithString("tag",
			mcp.Description("Tag, with or without the leading #"),
			mcp.Required(),
		),
	)
}

func notesByTagHandler(vault ports.NoteVault) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")
		if err := application.ValidateRequired("tag", tag); err != nil {
			return toolError(err)
		}

		notes, err := vault.NotesByTag(tag)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(summaries(notes), fmt.Sprintf("%d notes tagged %s", len(notes), tag))
	}
}

// --- get_backlinks ---

func backlinksTool() mcp.Tool {
	return mcp.NewTool("obsidian_get_backlinks",
		mcp.WithDescription("List the notes that link to a note."),
		mcp.WithString("name",
			mcp.Description("Name of the linked note"),
			mcp.Required(),
		),
	)
}

func backlinksHandler(vault ports.NoteVault) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("name", "")
		if err := application.ValidateRequired("name", name); err != nil {
			return toolError(err)
		}

		links, err := vault.Backlinks(name)
		if err != nil {
			return toolError(err)
		}
		if links == nil {
			links = []domain.Backlink{}
		}
		return toolSuccess(links, fmt.Sprintf("%d backlinks to %s", len(links), name))
	}
}

// --- orphaned_notes ---

func orphanedNotesTool() mcp.Tool {
	return mcp.NewTool("obsidian_orphaned_notes",
		mcp.WithDescription("List notes with no incoming or outgoing links."),
	)
}

func orphanedNotesHandler(vault ports.NoteVault) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		notes, err := vault.OrphanedNotes()
		if err != nil {
			return toolError(err)
		}
		if len(notes) == 0 {
			return toolSuccess([]noteSummary{}, "No orphaned notes, every note has links")
		}
		return toolSuccess(summaries(notes), fmt.Sprintf("%d orphaned notes", len(notes)))
	}
}

// --- vault_stats ---

func vaultStatsTool() mcp.Tool {
	return mcp.NewTool("obsidian_vault_stats",
		mcp.WithDescription("Summarize the vault: note count, size, tags and note types."),
	)
}

func vaultStatsHandler(vault ports.NoteVault) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := vault.Stats()
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(stats, fmt.Sprintf("%d notes, %d tags", stats.TotalNotes, stats.TotalTags))
	}
}

// --- get_flashcard_content ---

func flashcardContentTool() mcp.Tool {
	return mcp.NewTool("obsidian_get_flashcard_content",
		mcp.WithDescription("Pull flashcard material out of a note: headings, definitions, list items and quotes."),
		mcp.WithString("name",
			mcp.Description("Note name or path"),
			mcp.Required(),
		),
		mcp.WithArray("content_types",
			mcp.Description("Kinds of material to extract. All when omitted."),
			mcp.WithStringItems(mcp.Enum(domain.AllContentTypes...)),
		),
	)
}

func flashcardContentHandler(vault ports.NoteVault) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note, err := vault.GetNote(req.GetString("name", ""))
		if err != nil {
			return toolError(err)
		}

		items := domain.ExtractStudyItems(*note, stringList(req, "content_types"))
		if items == nil {
			items = []domain.StudyItem{}
		}
		return toolSuccess(map[string]any{
			"note":  summarize(*note),
			"items": items,
		}, fmt.Sprintf("Extracted %d study items from %s", len(items), note.Name))
	}
}
