package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestNoteTypeSchema_MapFields(t *testing.T) {
	tests := []struct {
		name   string
		schema NoteTypeSchema
		card   Card
		want   map[string]string
	}{
		{
			name:   "two fields",
			schema: NoteTypeSchema{ModelName: "Basic", FieldNames: []string{"Front", "Back"}},
			card:   NewFrontBackCard("q", "a"),
			want:   map[string]string{"Front": "q", "Back": "a"},
		},
		{
			name:   "extra fields are empty",
			schema: NoteTypeSchema{ModelName: "Basic+", FieldNames: []string{"Question", "Answer", "Source"}},
			card:   NewFrontBackCard("q", "a"),
			want:   map[string]string{"Question": "q", "Answer": "a", "Source": ""},
		},
		{
			name:   "single field drops the back",
			schema: NoteTypeSchema{ModelName: "OneField", FieldNames: []string{"Only"}},
			card:   NewFrontBackCard("q", "a"),
			want:   map[string]string{"Only": "q"},
		},
		{
			name:   "cloze",
			schema: NoteTypeSchema{ModelName: "Cloze", FieldNames: []string{"Text", "Back Extra"}},
			card:   NewClozeCard("{{c1::x}}"),
			want:   map[string]string{"Text": "{{c1::x}}", "Back Extra": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.schema.MapFields(tt.card)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	if DefaultModelFor(KindFrontBack) != "Basic" || DefaultModelFor(KindCloze) != "Cloze" {
		t.Error("unexpected default model names")
	}
	if !reflect.DeepEqual(FallbackFields(KindFrontBack), []string{"Front", "Back"}) {
		t.Errorf("unexpected front-back fallback: %v", FallbackFields(KindFrontBack))
	}
	if !reflect.DeepEqual(FallbackFields(KindCloze), []string{"Text"}) {
		t.Errorf("unexpected cloze fallback: %v", FallbackFields(KindCloze))
	}
}

func TestError_Is(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
		kind Kind
	}{
		{"unavailable", NewError(KindRemoteUnavailable, "deckNames", "connection refused"), ErrRemoteUnavailable, KindRemoteUnavailable},
		{"rejected", NewError(KindRemoteRejected, "addNotes", "cannot create note because it is a duplicate"), ErrRemoteRejected, KindRemoteRejected},
		{"wrapped", WrapError(KindNotFound, "lookup", errors.New("missing")), ErrNotFound, KindNotFound},
		{"no valid note type", ErrNoValidNoteType, ErrNotFound, KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("expected %v to match %v", tt.err, tt.want)
			}
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
		})
	}

	if errors.Is(NewError(KindRemoteRejected, "x", "y"), ErrRemoteUnavailable) {
		t.Error("rejected must not match unavailable")
	}
}

func TestError_Message(t *testing.T) {
	err := NewError(KindRemoteRejected, "createDeck", "deck name is empty")
	if err.Error() != "createDeck: deck name is empty" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestParseCardKind(t *testing.T) {
	for _, s := range []string{"", "basic", "front-back", "FRONT_BACK"} {
		if k, err := ParseCardKind(s); err != nil || k != KindFrontBack {
			t.Errorf("ParseCardKind(%q) = %v, %v", s, k, err)
		}
	}
	if k, err := ParseCardKind("cloze"); err != nil || k != KindCloze {
		t.Errorf("ParseCardKind(cloze) = %v, %v", k, err)
	}
	if _, err := ParseCardKind("essay"); !errors.Is(err, ErrInputInvalid) {
		t.Errorf("expected invalid input, got %v", err)
	}
}
