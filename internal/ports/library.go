package ports

import (
	"context"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// ReferenceLibrary is read access to a Zotero library
type ReferenceLibrary interface {
	// Name identifies the backend ("local" or "web")
	Name() string

	SearchItems(ctx context.Context, query string, limit int) ([]domain.ZoteroItem, error)
	RecentItems(ctx context.Context, limit, offset int) ([]domain.ZoteroItem, error)
	GetItem(ctx context.Context, key string) (*domain.ZoteroItem, error)
	ItemNotes(ctx context.Context, key string) ([]domain.ZoteroNote, error)
	Collections(ctx context.Context) ([]domain.ZoteroCollection, error)
	CollectionItems(ctx context.Context, collectionKey string, limit int) ([]domain.ZoteroItem, error)
}
