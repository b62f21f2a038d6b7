package ports

import "github.com/xstraven/mcp-server-learning/internal/domain"

// ObsidianOpener opens vault files in the Obsidian app
type ObsidianOpener interface {
	// BuildURI returns the obsidian://open URI for an absolute path inside the vault
	BuildURI(filePath string) (string, error)
	// OpenFile hands the file's URI to the operating system
	OpenFile(filePath string) error
}

// NoteVault is read access to an Obsidian vault
type NoteVault interface {
	Root() string

	ListNotes(limit, offset int) ([]domain.Note, error)
	GetNote(name string) (*domain.Note, error)
	// SearchNotes matches query against the fields named in searchIn
	// ("content", "title", "tags"); all three when searchIn is empty
	SearchNotes(query string, searchIn []string, limit int) ([]domain.Note, error)
	NotesByTag(tag string) ([]domain.Note, error)
	Backlinks(name string) ([]domain.Backlink, error)
	OrphanedNotes() ([]domain.Note, error)
	Stats() (*domain.VaultStats, error)
}
