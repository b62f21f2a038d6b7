package ports

import (
	"context"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// AnkiInvoker performs one AnkiConnect action. Implementations return a
// domain.Error of kind RemoteUnavailable when Anki cannot be reached and
// RemoteRejected, carrying Anki's own text, when the action fails.
type AnkiInvoker interface {
	Invoke(ctx context.Context, action string, params any, result any) error
}

// AnkiClient is the typed set of AnkiConnect actions used by the commands
type AnkiClient interface {
	RequestPermission(ctx context.Context) (permission string, version int, err error)
	Version(ctx context.Context) (int, error)

	DeckNames(ctx context.Context) ([]string, error)
	CreateDeck(ctx context.Context, name string) (int64, error)
	ModelNames(ctx context.Context) ([]string, error)
	ModelFieldNames(ctx context.Context, model string) ([]string, error)

	// AddNotes returns one entry per note, nil where Anki created nothing.
	// When some notes fail Anki answers with an error and the partial ids,
	// so ids may be non-nil alongside err.
	AddNotes(ctx context.Context, notes []domain.NoteSpec) ([]*int64, error)
	// CanAddNotes reports per note whether it would be accepted (false for duplicates)
	CanAddNotes(ctx context.Context, notes []domain.NoteSpec) ([]bool, error)

	FindNotes(ctx context.Context, query string) ([]int64, error)
	NotesInfo(ctx context.Context, noteIDs []int64) ([]domain.NoteInfo, error)
	UpdateNote(ctx context.Context, update domain.NoteUpdate) error
	DeleteNotes(ctx context.Context, noteIDs []int64) error
	ChangeDeck(ctx context.Context, cardIDs []int64, deck string) error
	SetCardFlag(ctx context.Context, cardIDs []int64, flag int) error
	Sync(ctx context.Context) error
}
