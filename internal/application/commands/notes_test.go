package commands

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

func TestCheckConnectionCommand(t *testing.T) {
	anki := newFakeAnki()
	status, err := NewCheckConnectionCommand(anki).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Permission != "granted" || status.Version != 6 {
		t.Errorf("unexpected status %+v", status)
	}
	if len(status.Models) != 2 || len(status.Decks) != 1 {
		t.Errorf("expected decks and models, got %+v", status)
	}

	anki.permissionErr = errUnreachable
	if _, err := NewCheckConnectionCommand(anki).Execute(context.Background()); !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Errorf("expected remote unavailable, got %v", err)
	}
}

func TestSearchNotesCommand(t *testing.T) {
	anki := newFakeAnki()
	anki.found = []int64{1, 2, 3, 4}

	res, err := NewSearchNotesCommand(anki, "deck:Physics", 2).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalFound != 4 {
		t.Errorf("expected 4 found, got %d", res.TotalFound)
	}
	if len(res.Notes) != 2 || res.Notes[0].NoteID != 1 {
		t.Errorf("expected first 2 notes, got %+v", res.Notes)
	}

	if _, err := NewSearchNotesCommand(anki, "", 0).Execute(context.Background()); !errors.Is(err, domain.ErrInputInvalid) {
		t.Errorf("expected input invalid for empty query, got %v", err)
	}
}

func TestUpdateNoteCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		noteID  int64
		fields  map[string]string
		tags    []string
		flag    int
		wantErr bool
		errMsg  string
	}{
		{
			name:   "fields only",
			noteID: 42,
			fields: map[string]string{"Front": "new"},
		},
		{
			name:   "tags only",
			noteID: 42,
			tags:   []string{},
		},
		{
			name:    "missing note id",
			fields:  map[string]string{"Front": "new"},
			wantErr: true,
			errMsg:  "invalid id 0",
		},
		{
			name:    "nothing to update",
			noteID:  42,
			wantErr: true,
			errMsg:  "nothing to update",
		},
		{
			name:    "bad flag",
			noteID:  42,
			fields:  map[string]string{"Front": "new"},
			flag:    12,
			wantErr: true,
			errMsg:  "flag must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &UpdateNoteCommand{NoteID: tt.noteID, Fields: tt.fields, Tags: tt.tags, Flag: tt.flag}
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdateNoteCommand_Execute(t *testing.T) {
	t.Run("updates and flags", func(t *testing.T) {
		anki := newFakeAnki()
		cmd := NewUpdateNoteCommand(anki, zap.NewNop(), 42, map[string]string{"Back": "better"}, nil, domain.FlagPurple)

		res, err := cmd.Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(anki.updates) != 1 || anki.updates[0].NoteID != 42 || anki.updates[0].Tags != nil {
			t.Errorf("unexpected update %+v", anki.updates)
		}
		if len(anki.flagged) != 1 || anki.flagged[0] != 420 {
			t.Errorf("expected card 420 flagged, got %v", anki.flagged)
		}
		if len(res.Warnings) != 0 {
			t.Errorf("expected no warnings, got %v", res.Warnings)
		}
	})

	t.Run("flag failure is a warning", func(t *testing.T) {
		anki := newFakeAnki()
		anki.notesInfoErr = domain.NewError(domain.KindRemoteRejected, "notesInfo", "boom")
		cmd := NewUpdateNoteCommand(anki, zap.NewNop(), 42, map[string]string{"Back": "better"}, nil, domain.FlagRed)

		res, err := cmd.Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Warnings) != 1 {
			t.Errorf("expected one warning, got %v", res.Warnings)
		}
	})

	t.Run("update rejected", func(t *testing.T) {
		anki := newFakeAnki()
		anki.updateErr = domain.NewError(domain.KindRemoteRejected, "updateNote", "note was not found: 42")
		cmd := NewUpdateNoteCommand(anki, zap.NewNop(), 42, map[string]string{"Back": "x"}, nil, 0)

		_, err := cmd.Execute(context.Background())
		if !errors.Is(err, domain.ErrRemoteRejected) {
			t.Errorf("expected remote rejected, got %v", err)
		}
		if !contains(err.Error(), "note was not found: 42") {
			t.Errorf("expected Anki's message to be kept, got %q", err.Error())
		}
	})
}

func TestDeleteNotesCommand(t *testing.T) {
	anki := newFakeAnki()
	msg, err := NewDeleteNotesCommand(anki, []int64{5, 6}).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Deleted 2 notes" || len(anki.deleted) != 2 {
		t.Errorf("unexpected result %q, deleted %v", msg, anki.deleted)
	}

	if _, err := NewDeleteNotesCommand(anki, nil).Execute(context.Background()); err == nil {
		t.Error("expected error for empty ids")
	}
}

func TestMoveCardsCommand(t *testing.T) {
	t.Run("card ids", func(t *testing.T) {
		anki := newFakeAnki()
		res, err := NewMoveCardsCommand(anki, "Archive", []int64{7, 8}, nil).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if anki.movedTo != "Archive" || len(anki.moved) != 2 {
			t.Errorf("unexpected move to %q of %v", anki.movedTo, anki.moved)
		}
		if res.Message != "Moved 2 cards to Archive" {
			t.Errorf("unexpected message %q", res.Message)
		}
	})

	t.Run("note ids resolve to cards", func(t *testing.T) {
		anki := newFakeAnki()
		res, err := NewMoveCardsCommand(anki, "Archive", nil, []int64{3}).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.CardIDs) != 1 || res.CardIDs[0] != 30 {
			t.Errorf("expected card 30, got %v", res.CardIDs)
		}
	})

	t.Run("missing deck", func(t *testing.T) {
		anki := newFakeAnki()
		if _, err := NewMoveCardsCommand(anki, "", []int64{1}, nil).Execute(context.Background()); err == nil {
			t.Error("expected error for missing deck")
		}
	})
}

func TestListModelsCommand(t *testing.T) {
	anki := newFakeAnki()
	models, err := NewListModelsCommand(anki).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 2 || models[1].Name != "Cloze" || len(models[1].Fields) != 2 {
		t.Errorf("unexpected models %+v", models)
	}
}
