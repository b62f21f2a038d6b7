package commands

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// fakeAnki is an in-memory ports.AnkiClient
type fakeAnki struct {
	permissionErr error
	decks         []string
	createdDecks  []string
	models        []string
	fields        map[string][]string
	modelNamesErr error
	fieldNamesErr error

	// notes whose first field is listed here are duplicates or refused
	duplicates map[string]bool
	refuse     map[string]bool
	canAddErr  error
	addErr     error

	notesInfoErr error
	flagErr      error
	updateErr    error

	addCalls        [][]domain.NoteSpec
	modelNamesCalls int
	flagged         []int64
	flagValue       int
	updates         []domain.NoteUpdate
	deleted         []int64
	moved           []int64
	movedTo         string
	found           []int64
	nextID          int64
}

func newFakeAnki() *fakeAnki {
	return &fakeAnki{
		decks:  []string{"Default"},
		models: []string{"Basic", "Cloze"},
		fields: map[string][]string{
			"Basic": {"Front", "Back"},
			"Cloze": {"Text", "Back Extra"},
		},
		duplicates: map[string]bool{},
		refuse:     map[string]bool{},
		nextID:     1000,
	}
}

func noteKey(n domain.NoteSpec) string {
	if v, ok := n.Fields["Front"]; ok {
		return v
	}
	return n.Fields["Text"]
}

func (f *fakeAnki) RequestPermission(ctx context.Context) (string, int, error) {
	if f.permissionErr != nil {
		return "", 0, f.permissionErr
	}
	return "granted", 6, nil
}

func (f *fakeAnki) Version(ctx context.Context) (int, error) { return 6, nil }

func (f *fakeAnki) DeckNames(ctx context.Context) ([]string, error) {
	return f.decks, nil
}

func (f *fakeAnki) CreateDeck(ctx context.Context, name string) (int64, error) {
	f.createdDecks = append(f.createdDecks, name)
	f.decks = append(f.decks, name)
	return 1, nil
}

func (f *fakeAnki) ModelNames(ctx context.Context) ([]string, error) {
	f.modelNamesCalls++
	if f.modelNamesErr != nil {
		return nil, f.modelNamesErr
	}
	return f.models, nil
}

func (f *fakeAnki) ModelFieldNames(ctx context.Context, model string) ([]string, error) {
	if f.fieldNamesErr != nil {
		return nil, f.fieldNamesErr
	}
	return f.fields[model], nil
}

func (f *fakeAnki) AddNotes(ctx context.Context, notes []domain.NoteSpec) ([]*int64, error) {
	f.addCalls = append(f.addCalls, notes)
	if f.addErr != nil {
		return nil, f.addErr
	}
	ids := make([]*int64, len(notes))
	refused := false
	for i, n := range notes {
		if f.refuse[noteKey(n)] {
			refused = true
			continue
		}
		id := f.nextID
		f.nextID++
		ids[i] = &id
	}
	if refused {
		return ids, domain.NewError(domain.KindRemoteRejected, "addNotes", "cannot create note because it is empty")
	}
	return ids, nil
}

func (f *fakeAnki) CanAddNotes(ctx context.Context, notes []domain.NoteSpec) ([]bool, error) {
	if f.canAddErr != nil {
		return nil, f.canAddErr
	}
	ok := make([]bool, len(notes))
	for i, n := range notes {
		ok[i] = !f.duplicates[noteKey(n)]
	}
	return ok, nil
}

func (f *fakeAnki) FindNotes(ctx context.Context, query string) ([]int64, error) {
	return f.found, nil
}

func (f *fakeAnki) NotesInfo(ctx context.Context, noteIDs []int64) ([]domain.NoteInfo, error) {
	if f.notesInfoErr != nil {
		return nil, f.notesInfoErr
	}
	infos := make([]domain.NoteInfo, 0, len(noteIDs))
	for _, id := range noteIDs {
		infos = append(infos, domain.NoteInfo{NoteID: id, ModelName: "Basic", CardIDs: []int64{id * 10}})
	}
	return infos, nil
}

func (f *fakeAnki) UpdateNote(ctx context.Context, update domain.NoteUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeAnki) DeleteNotes(ctx context.Context, noteIDs []int64) error {
	f.deleted = append(f.deleted, noteIDs...)
	return nil
}

func (f *fakeAnki) ChangeDeck(ctx context.Context, cardIDs []int64, deck string) error {
	f.moved = append(f.moved, cardIDs...)
	f.movedTo = deck
	return nil
}

func (f *fakeAnki) SetCardFlag(ctx context.Context, cardIDs []int64, flag int) error {
	if f.flagErr != nil {
		return f.flagErr
	}
	f.flagged = append(f.flagged, cardIDs...)
	f.flagValue = flag
	return nil
}

func (f *fakeAnki) Sync(ctx context.Context) error { return nil }

var errUnreachable = &domain.Error{
	Kind:    domain.KindRemoteUnavailable,
	Op:      "requestPermission",
	Message: "cannot connect to Anki",
	Err:     errors.New("connection refused"),
}

func frontBackCards(fronts ...string) []domain.Card {
	cards := make([]domain.Card, len(fronts))
	for i, f := range fronts {
		cards[i] = domain.NewFrontBackCard(f, "answer "+f)
	}
	return cards
}

func hasModel(notes []domain.NoteSpec, model string) bool {
	return slices.ContainsFunc(notes, func(n domain.NoteSpec) bool { return n.ModelName == model })
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
