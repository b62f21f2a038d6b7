package domain

// Built-in Anki note types used when the caller names none
const (
	DefaultBasicModel = "Basic"
	DefaultClozeModel = "Cloze"
)

// NoteTypeSchema is an Anki note type and its ordered field names.
// Cards map onto fields by position.
type NoteTypeSchema struct {
	ModelName  string
	FieldNames []string
}

// DefaultModelFor returns the note type name used for kind when none is given
func DefaultModelFor(kind CardKind) string {
	if kind == KindCloze {
		return DefaultClozeModel
	}
	return DefaultBasicModel
}

// FallbackFields returns the field list assumed when Anki cannot report one
func FallbackFields(kind CardKind) []string {
	if kind == KindCloze {
		return []string{"Text"}
	}
	return []string{"Front", "Back"}
}

// MapFields assigns card content to schema fields by position. Every schema
// field is present in the result; unassigned fields are empty.
func (s NoteTypeSchema) MapFields(c Card) map[string]string {
	fields := make(map[string]string, len(s.FieldNames))
	for _, name := range s.FieldNames {
		fields[name] = ""
	}

	var values []string
	if c.Kind == KindCloze {
		values = []string{c.Text}
	} else {
		values = []string{c.Front, c.Back}
	}
	for i, v := range values {
		if i >= len(s.FieldNames) {
			break
		}
		fields[s.FieldNames[i]] = v
	}
	return fields
}
