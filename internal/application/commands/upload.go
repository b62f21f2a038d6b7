package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/application"
	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// DefaultBatchSize bounds how many notes go into one addNotes request
const DefaultBatchSize = 100

// UploadOptions controls how a batch of cards is written to Anki
type UploadOptions struct {
	DeckName        string
	Tags            []string
	NoteType        string
	CheckDuplicates bool
	DuplicatePolicy domain.DuplicatePolicy
	BatchSize       int
	// Flag marks created cards, 0 leaves them unflagged
	Flag int
}

// DefaultUploadOptions returns the options used when the caller sets none
func DefaultUploadOptions(deck string) UploadOptions {
	return UploadOptions{
		DeckName:        deck,
		CheckDuplicates: true,
		DuplicatePolicy: domain.DuplicateSkip,
		BatchSize:       DefaultBatchSize,
		Flag:            domain.FlagPurple,
	}
}

// UploadCommand uploads cards to an Anki deck in chunks
type UploadCommand struct {
	anki    ports.AnkiClient
	logger  *zap.Logger
	Cards   []domain.Card
	Options UploadOptions
}

// NewUploadCommand creates a new UploadCommand
func NewUploadCommand(anki ports.AnkiClient, logger *zap.Logger, cards []domain.Card, opts UploadOptions) *UploadCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadCommand{
		anki:    anki,
		logger:  logger,
		Cards:   cards,
		Options: opts,
	}
}

// Validate checks the upload options
func (c *UploadCommand) Validate() error {
	if err := application.ValidateRequired("deckName", c.Options.DeckName); err != nil {
		return err
	}
	if len(c.Cards) == 0 {
		return &application.ValidationError{
			Field:   "cards",
			Message: "at least one card is required",
		}
	}
	if c.Options.BatchSize < 0 {
		return &application.ValidationError{
			Field:   "batchSize",
			Message: fmt.Sprintf("batch size must be positive, got %d", c.Options.BatchSize),
		}
	}
	if c.Options.DuplicatePolicy != "" {
		if err := application.ValidateDuplicatePolicy(c.Options.DuplicatePolicy); err != nil {
			return err
		}
	}
	return application.ValidateFlag(c.Options.Flag)
}

// pendingNote is a mapped card waiting to be sent, with its input position
type pendingNote struct {
	index     int
	note      domain.NoteSpec
	duplicate bool
}

// Execute runs the upload. Per-card failures are recorded in the result and
// never abort the batch; only a failed setup returns an error.
func (c *UploadCommand) Execute(ctx context.Context) (*domain.UploadBatchResult, error) {
	result := &domain.UploadBatchResult{
		BatchID:          uuid.NewString(),
		DeckName:         c.Options.DeckName,
		TotalCards:       len(c.Cards),
		NoteIDs:          make([]*int64, len(c.Cards)),
		ProcessingErrors: []domain.ProcessingError{},
	}
	if c.Options.CheckDuplicates {
		result.SkippedDuplicates = new(int)
		result.AddedDuplicates = new(int)
	}

	if err := c.Validate(); err != nil {
		result.Error = err.Error()
		return result, err
	}

	log := c.logger.With(
		zap.String("batch_id", result.BatchID),
		zap.String("deck", c.Options.DeckName),
	)

	if err := c.setup(ctx); err != nil {
		log.Error("upload setup failed", zap.Error(err))
		result.Error = err.Error()
		return result, err
	}

	size := c.Options.BatchSize
	if size == 0 {
		size = DefaultBatchSize
	}
	mapper := NewFieldMapper(c.anki, log).forBatch()
	for start := 0; start < len(c.Cards); start += size {
		end := min(start+size, len(c.Cards))
		c.uploadChunk(ctx, log, mapper, start, end, result)
	}

	if c.Options.Flag != domain.FlagNone {
		result.Warnings = append(result.Warnings,
			flagNotes(ctx, c.anki, log, result.CreatedNoteIDs(), c.Options.Flag)...)
	}

	result.Success = result.SuccessfulUploads > 0 || result.FailedUploads == 0
	if !result.Success {
		result.Error = fmt.Sprintf("none of the %d cards could be uploaded", result.TotalCards)
	}

	log.Info("upload finished",
		zap.Int("total", result.TotalCards),
		zap.Int("successful", result.SuccessfulUploads),
		zap.Int("failed", result.FailedUploads),
		zap.Int("skipped_duplicates", result.Skipped()),
	)
	return result, nil
}

// setup checks permission and creates the target deck when it is missing
func (c *UploadCommand) setup(ctx context.Context) error {
	if _, _, err := c.anki.RequestPermission(ctx); err != nil {
		return err
	}
	decks, err := c.anki.DeckNames(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(decks, c.Options.DeckName) {
		return nil
	}
	if _, err := c.anki.CreateDeck(ctx, c.Options.DeckName); err != nil {
		return err
	}
	return nil
}

func (c *UploadCommand) uploadChunk(ctx context.Context, log *zap.Logger, mapper *FieldMapper, start, end int, result *domain.UploadBatchResult) {
	var pending []pendingNote
	for i := start; i < end; i++ {
		card := c.Cards[i]
		noteType := card.NoteType
		if noteType == "" {
			noteType = c.Options.NoteType
		}
		mapped, err := mapper.ToFields(ctx, card, noteType)
		if err != nil {
			result.FailedUploads++
			result.ProcessingErrors = append(result.ProcessingErrors, domain.ProcessingError{
				Context: cardContext(i, card),
				Message: err.Error(),
			})
			continue
		}
		pending = append(pending, pendingNote{
			index: i,
			note: domain.NoteSpec{
				DeckName:  c.Options.DeckName,
				ModelName: mapped.ModelName,
				Fields:    mapped.Fields,
				Tags:      mergeTags(c.Options.Tags, card.Tags),
			},
		})
	}

	if len(pending) > 0 && c.Options.CheckDuplicates {
		pending = c.filterDuplicates(ctx, log, pending, start, end, result)
	}
	if len(pending) == 0 {
		return
	}

	notes := make([]domain.NoteSpec, len(pending))
	for j, p := range pending {
		notes[j] = p.note
	}
	ids, err := c.anki.AddNotes(ctx, notes)
	if err != nil && len(ids) != len(pending) {
		log.Warn("addNotes failed", zap.Int("from", start+1), zap.Int("to", end), zap.Error(err))
		result.FailedUploads += len(pending)
		result.ProcessingErrors = append(result.ProcessingErrors, domain.ProcessingError{
			Context: fmt.Sprintf("cards %d-%d", start+1, end),
			Message: err.Error(),
		})
		return
	}

	for j, p := range pending {
		if j < len(ids) && ids[j] != nil {
			result.NoteIDs[p.index] = ids[j]
			result.SuccessfulUploads++
			if p.duplicate {
				*result.AddedDuplicates++
			}
			continue
		}
		msg := "Anki did not create the note"
		if err != nil {
			msg = err.Error()
		}
		result.FailedUploads++
		result.ProcessingErrors = append(result.ProcessingErrors, domain.ProcessingError{
			Context: cardContext(p.index, c.Cards[p.index]),
			Message: msg,
		})
	}
}

// filterDuplicates applies the duplicate policy to pending. A failed check is
// recorded and the chunk is returned unfiltered.
func (c *UploadCommand) filterDuplicates(ctx context.Context, log *zap.Logger, pending []pendingNote, start, end int, result *domain.UploadBatchResult) []pendingNote {
	notes := make([]domain.NoteSpec, len(pending))
	for j, p := range pending {
		notes[j] = p.note
	}

	ok, err := c.anki.CanAddNotes(ctx, notes)
	if err == nil && len(ok) != len(notes) {
		err = fmt.Errorf("canAddNotes returned %d answers for %d notes", len(ok), len(notes))
	}
	if err != nil {
		log.Warn("duplicate check failed", zap.Int("from", start+1), zap.Int("to", end), zap.Error(err))
		result.ProcessingErrors = append(result.ProcessingErrors, domain.ProcessingError{
			Context: fmt.Sprintf("duplicate check for cards %d-%d", start+1, end),
			Message: err.Error(),
		})
		return pending
	}

	kept := pending[:0]
	for j, p := range pending {
		if ok[j] {
			kept = append(kept, p)
			continue
		}
		if c.Options.DuplicatePolicy == domain.DuplicateAddAnyway {
			p.note.AllowDuplicate = true
			p.duplicate = true
			kept = append(kept, p)
			continue
		}
		*result.SkippedDuplicates++
	}
	return kept
}

// flagNotes sets flag on every card of noteIDs. Failures are returned as
// warnings and logged, never as errors.
func flagNotes(ctx context.Context, anki ports.AnkiClient, log *zap.Logger, noteIDs []int64, flag int) []string {
	if len(noteIDs) == 0 {
		return nil
	}
	infos, err := anki.NotesInfo(ctx, noteIDs)
	if err != nil {
		log.Warn("could not look up cards to flag", zap.Int64s("note_ids", noteIDs), zap.Error(err))
		return []string{fmt.Sprintf("cards could not be flagged: %v", err)}
	}

	var cardIDs []int64
	for _, info := range infos {
		cardIDs = append(cardIDs, info.CardIDs...)
	}
	if len(cardIDs) == 0 {
		return nil
	}
	if err := anki.SetCardFlag(ctx, cardIDs, flag); err != nil {
		log.Warn("could not flag cards", zap.Int64s("card_ids", cardIDs), zap.Int("flag", flag), zap.Error(err))
		return []string{fmt.Sprintf("cards could not be flagged: %v", err)}
	}
	return nil
}

func cardContext(index int, card domain.Card) string {
	return fmt.Sprintf("card %d (%s)", index+1, card.Summary())
}

// mergeTags returns base followed by the extra tags not already present
func mergeTags(base, extra []string) []string {
	tags := make([]string, 0, len(base)+len(extra))
	for _, t := range slices.Concat(base, extra) {
		if t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags
}
