package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/application"
	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// CheckConnectionCommand reports whether Anki is reachable and what it holds
type CheckConnectionCommand struct {
	anki ports.AnkiClient
}

// NewCheckConnectionCommand creates a new CheckConnectionCommand
func NewCheckConnectionCommand(anki ports.AnkiClient) *CheckConnectionCommand {
	return &CheckConnectionCommand{anki: anki}
}

// Execute asks for permission, then lists decks and note types
func (c *CheckConnectionCommand) Execute(ctx context.Context) (*domain.ConnectionStatus, error) {
	permission, version, err := c.anki.RequestPermission(ctx)
	if err != nil {
		return nil, err
	}
	decks, err := c.anki.DeckNames(ctx)
	if err != nil {
		return nil, err
	}
	models, err := c.anki.ModelNames(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.ConnectionStatus{
		Permission: permission,
		Version:    version,
		Decks:      decks,
		Models:     models,
	}, nil
}

// DefaultSearchLimit caps search results when the caller gives no limit
const DefaultSearchLimit = 50

// SearchNotesResult contains the notes matching an Anki search query
type SearchNotesResult struct {
	Query      string            `json:"query"`
	TotalFound int               `json:"total_found"`
	Notes      []domain.NoteInfo `json:"notes"`
}

// SearchNotesCommand runs an Anki search query and loads the matching notes
type SearchNotesCommand struct {
	anki  ports.AnkiClient
	Query string
	Limit int
}

// NewSearchNotesCommand creates a new SearchNotesCommand
func NewSearchNotesCommand(anki ports.AnkiClient, query string, limit int) *SearchNotesCommand {
	return &SearchNotesCommand{anki: anki, Query: query, Limit: limit}
}

// Validate checks the query
func (c *SearchNotesCommand) Validate() error {
	return application.ValidateRequired("query", c.Query)
}

// Execute runs the search. TotalFound counts all matches, Notes at most Limit.
func (c *SearchNotesCommand) Execute(ctx context.Context) (*SearchNotesResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ids, err := c.anki.FindNotes(ctx, c.Query)
	if err != nil {
		return nil, err
	}

	limit := c.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	res := &SearchNotesResult{Query: c.Query, TotalFound: len(ids), Notes: []domain.NoteInfo{}}
	if len(ids) == 0 {
		return res, nil
	}
	notes, err := c.anki.NotesInfo(ctx, ids[:min(limit, len(ids))])
	if err != nil {
		return nil, err
	}
	res.Notes = notes
	return res, nil
}

// UpdateNoteResult contains the outcome of a note update
type UpdateNoteResult struct {
	NoteID   int64    `json:"note_id"`
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"-"`
}

// UpdateNoteCommand replaces fields and optionally tags of an existing note
type UpdateNoteCommand struct {
	anki   ports.AnkiClient
	logger *zap.Logger
	NoteID int64
	Fields map[string]string
	// Tags replaces the note tags when non-nil
	Tags []string
	Flag int
}

// NewUpdateNoteCommand creates a new UpdateNoteCommand
func NewUpdateNoteCommand(anki ports.AnkiClient, logger *zap.Logger, noteID int64, fields map[string]string, tags []string, flag int) *UpdateNoteCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateNoteCommand{
		anki:   anki,
		logger: logger,
		NoteID: noteID,
		Fields: fields,
		Tags:   tags,
		Flag:   flag,
	}
}

// Validate checks the update
func (c *UpdateNoteCommand) Validate() error {
	if err := application.ValidateIDs("noteID", []int64{c.NoteID}); err != nil {
		return err
	}
	if len(c.Fields) == 0 && c.Tags == nil {
		return &application.ValidationError{
			Field:   "fields",
			Message: "nothing to update, give fields or tags",
		}
	}
	return application.ValidateFlag(c.Flag)
}

// Execute updates the note and then flags its cards on a best-effort basis
func (c *UpdateNoteCommand) Execute(ctx context.Context) (*UpdateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	fields := c.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	err := c.anki.UpdateNote(ctx, domain.NoteUpdate{
		NoteID: c.NoteID,
		Fields: fields,
		Tags:   c.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update note %d: %w", c.NoteID, err)
	}

	res := &UpdateNoteResult{
		NoteID:  c.NoteID,
		Message: fmt.Sprintf("Updated note %d", c.NoteID),
	}
	if c.Flag != domain.FlagNone {
		log := c.logger.With(zap.Int64("note_id", c.NoteID))
		res.Warnings = flagNotes(ctx, c.anki, log, []int64{c.NoteID}, c.Flag)
	}
	return res, nil
}

// DeleteNotesCommand deletes notes and all their cards
type DeleteNotesCommand struct {
	anki    ports.AnkiClient
	NoteIDs []int64
}

// NewDeleteNotesCommand creates a new DeleteNotesCommand
func NewDeleteNotesCommand(anki ports.AnkiClient, noteIDs []int64) *DeleteNotesCommand {
	return &DeleteNotesCommand{anki: anki, NoteIDs: noteIDs}
}

// Validate checks the note ids
func (c *DeleteNotesCommand) Validate() error {
	return application.ValidateIDs("noteIDs", c.NoteIDs)
}

// Execute deletes the notes
func (c *DeleteNotesCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.anki.DeleteNotes(ctx, c.NoteIDs); err != nil {
		return "", fmt.Errorf("failed to delete notes: %w", err)
	}
	return fmt.Sprintf("Deleted %d notes", len(c.NoteIDs)), nil
}

// MoveCardsResult contains the outcome of moving cards between decks
type MoveCardsResult struct {
	DeckName string  `json:"deck_name"`
	CardIDs  []int64 `json:"card_ids"`
	Message  string  `json:"-"`
}

// MoveCardsCommand moves cards, given directly or through their notes, to a deck
type MoveCardsCommand struct {
	anki     ports.AnkiClient
	DeckName string
	CardIDs  []int64
	NoteIDs  []int64
}

// NewMoveCardsCommand creates a new MoveCardsCommand
func NewMoveCardsCommand(anki ports.AnkiClient, deck string, cardIDs, noteIDs []int64) *MoveCardsCommand {
	return &MoveCardsCommand{
		anki:     anki,
		DeckName: deck,
		CardIDs:  cardIDs,
		NoteIDs:  noteIDs,
	}
}

// Validate checks the destination and the ids
func (c *MoveCardsCommand) Validate() error {
	if err := application.ValidateRequired("deckName", c.DeckName); err != nil {
		return err
	}
	if len(c.CardIDs) == 0 {
		return application.ValidateIDs("noteIDs", c.NoteIDs)
	}
	return application.ValidateIDs("cardIDs", c.CardIDs)
}

// Execute resolves note ids to cards when needed and moves them
func (c *MoveCardsCommand) Execute(ctx context.Context) (*MoveCardsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cardIDs := c.CardIDs
	if len(cardIDs) == 0 {
		infos, err := c.anki.NotesInfo(ctx, c.NoteIDs)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			cardIDs = append(cardIDs, info.CardIDs...)
		}
		if len(cardIDs) == 0 {
			return nil, domain.NewError(domain.KindNotFound, "move cards", "none of the notes exist")
		}
	}

	if err := c.anki.ChangeDeck(ctx, cardIDs, c.DeckName); err != nil {
		return nil, fmt.Errorf("failed to move cards: %w", err)
	}
	return &MoveCardsResult{
		DeckName: c.DeckName,
		CardIDs:  cardIDs,
		Message:  fmt.Sprintf("Moved %d cards to %s", len(cardIDs), c.DeckName),
	}, nil
}

// SyncCommand triggers an AnkiWeb sync
type SyncCommand struct {
	anki ports.AnkiClient
}

// NewSyncCommand creates a new SyncCommand
func NewSyncCommand(anki ports.AnkiClient) *SyncCommand {
	return &SyncCommand{anki: anki}
}

// Execute runs the sync
func (c *SyncCommand) Execute(ctx context.Context) (string, error) {
	if err := c.anki.Sync(ctx); err != nil {
		return "", fmt.Errorf("sync failed: %w", err)
	}
	return "Sync completed", nil
}

// ListDecksCommand lists deck names
type ListDecksCommand struct {
	anki ports.AnkiClient
}

// NewListDecksCommand creates a new ListDecksCommand
func NewListDecksCommand(anki ports.AnkiClient) *ListDecksCommand {
	return &ListDecksCommand{anki: anki}
}

// Execute returns the deck names
func (c *ListDecksCommand) Execute(ctx context.Context) ([]string, error) {
	return c.anki.DeckNames(ctx)
}

// ModelSummary is a note type with its ordered field names
type ModelSummary struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// ListModelsCommand lists note types and their fields
type ListModelsCommand struct {
	anki ports.AnkiClient
}

// NewListModelsCommand creates a new ListModelsCommand
func NewListModelsCommand(anki ports.AnkiClient) *ListModelsCommand {
	return &ListModelsCommand{anki: anki}
}

// Execute returns every note type with its fields
func (c *ListModelsCommand) Execute(ctx context.Context) ([]ModelSummary, error) {
	names, err := c.anki.ModelNames(ctx)
	if err != nil {
		return nil, err
	}
	models := make([]ModelSummary, 0, len(names))
	for _, name := range names {
		fields, err := c.anki.ModelFieldNames(ctx, name)
		if err != nil {
			return nil, err
		}
		models = append(models, ModelSummary{Name: name, Fields: fields})
	}
	return models, nil
}
