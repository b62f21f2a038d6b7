package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xstraven/mcp-server-learning/internal/application"
	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

const defaultZoteroLimit = 25

// RegisterZoteroTools adds the read-only Zotero library tools to the MCP server.
func RegisterZoteroTools(s *server.MCPServer, lib ports.ReferenceLibrary) {
	s.AddTool(zoteroSearchTool(), zoteroSearchHandler(lib))
	s.AddTool(zoteroRecentTool(), zoteroRecentHandler(lib))
	s.AddTool(zoteroGetItemTool(), zoteroGetItemHandler(lib))
	s.AddTool(zoteroItemNotesTool(), zoteroItemNotesHandler(lib))
	s.AddTool(zoteroCollectionsTool(), zoteroCollectionsHandler(lib))
	s.AddTool(zoteroCollectionItemsTool(), zoteroCollectionItemsHandler(lib))
}

// itemView is a Zotero item with its formatted citation
type itemView struct {
	domain.ZoteroItem
	Authors  string `json:"authors,omitempty"`
	Year     string `json:"year"`
	Citation string `json:"citation"`
}

func itemViews(items []domain.ZoteroItem) []itemView {
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, newItemView(it))
	}
	return views
}

func newItemView(it domain.ZoteroItem) itemView {
	var names []string
	for _, c := range it.Authors() {
		names = append(names, c.DisplayName())
	}
	return itemView{
		ZoteroItem: it,
		Authors:    strings.Join(names, ", "),
		Year:       domain.ExtractYear(it.Date),
		Citation:   domain.FormatAPA(it),
	}
}

// --- search_items ---

func zoteroSearchTool() mcp.Tool {
	return mcp.NewTool("zotero_search_items",
		mcp.WithDescription("Search the Zotero library by title, creator or any field."),
		mcp.WithString("query",
			mcp.Description("Search text"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum items to return (default: %d)", defaultZoteroLimit)),
		),
	)
}

func zoteroSearchHandler(lib ports.ReferenceLibrary) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if err := application.ValidateRequired("query", query); err != nil {
			return toolError(err)
		}

		items, err := lib.SearchItems(ctx, query, req.GetInt("limit", defaultZoteroLimit))
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(itemViews(items), fmt.Sprintf("Found %d items in the %s library", len(items), lib.Name()))
	}
}

// --- recent_items ---

func zoteroRecentTool() mcp.Tool {
	return mcp.NewTool("zotero_recent_items",
		mcp.WithDescription("List the most recently modified items of the Zotero library."),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum items to return (default: %d)", defaultZoteroLimit)),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of items to skip, for paging"),
		),
	)
}

func zoteroRecentHandler(lib ports.ReferenceLibrary) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := lib.RecentItems(ctx, req.GetInt("limit", defaultZoteroLimit), req.GetInt("offset", 0))
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(itemViews(items), fmt.Sprintf("%d items", len(items)))
	}
}

// --- get_item ---

func zoteroGetItemTool() mcp.Tool {
	return mcp.NewTool("zotero_get_item",
		mcp.WithDescription("Get the metadata of one Zotero item with its APA citation."),
		mcp.WithString("item_key",
			mcp.Description("Zotero item key, e.g. ABCD1234"),
			mcp.Required(),
		),
	)
}

func zoteroGetItemHandler(lib ports.ReferenceLibrary) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.GetString("item_key", "")
		if err := application.ValidateRequired("itemKey", key); err != nil {
			return toolError(err)
		}

		item, err := lib.GetItem(ctx, key)
		if err != nil {
			return toolError(err)
		}
		view := newItemView(*item)
		return toolSuccess(view, view.Citation)
	}
}

// --- get_item_notes ---

func zoteroItemNotesTool() mcp.Tool {
	return mcp.NewTool("zotero_get_item_notes",
		mcp.WithDescription("Get the notes attached to a Zotero item."),
		mcp.WithString("item_key",
			mcp.Description("Zotero item key"),
			mcp.Required(),
		),
	)
}

func zoteroItemNotesHandler(lib ports.ReferenceLibrary) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.GetString("item_key", "")
		if err := application.ValidateRequired("itemKey", key); err != nil {
			return toolError(err)
		}

		notes, err := lib.ItemNotes(ctx, key)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(notes, fmt.Sprintf("%d notes", len(notes)))
	}
}

// --- list_collections ---

func zoteroCollectionsTool() mcp.Tool {
	return mcp.NewTool("zotero_list_collections",
		mcp.WithDescription("List the collections of the Zotero library."),
	)
}

func zoteroCollectionsHandler(lib ports.ReferenceLibrary) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		collections, err := lib.Collections(ctx)
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(collections, fmt.Sprintf("%d collections", len(collections)))
	}
}

// --- get_collection_items ---

func zoteroCollectionItemsTool() mcp.Tool {
	return mcp.NewTool("zotero_get_collection_items",
		mcp.WithDescription("List the items in a Zotero collection."),
		mcp.WithString("collection_key",
			mcp.Description("Collection key from zotero_list_collections"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum items to return (default: %d)", defaultZoteroLimit)),
		),
	)
}

func zoteroCollectionItemsHandler(lib ports.ReferenceLibrary) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.GetString("collection_key", "")
		if err := application.ValidateRequired("collection_key", key); err != nil {
			return toolError(err)
		}

		items, err := lib.CollectionItems(ctx, key, req.GetInt("limit", defaultZoteroLimit))
		if err != nil {
			return toolError(err)
		}
		return toolSuccess(itemViews(items), fmt.Sprintf("%d items", len(items)))
	}
}
