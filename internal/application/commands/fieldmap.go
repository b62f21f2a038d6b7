package commands

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// MappedFields is a card laid out on the fields of a concrete note type
type MappedFields struct {
	ModelName string
	Fields    map[string]string
	// FellBack is set when the requested note type was replaced by the default
	FellBack bool
	// SchemaFallback is set when Anki did not report field names
	SchemaFallback bool
}

// FieldMapper resolves note types against Anki and maps card content onto their fields
type FieldMapper struct {
	anki   ports.AnkiClient
	logger *zap.Logger

	// set by forBatch; lookups are remembered for a single upload call only
	batch  bool
	models []string
	fields map[string][]string
}

// NewFieldMapper creates a FieldMapper that queries Anki on every call
func NewFieldMapper(anki ports.AnkiClient, logger *zap.Logger) *FieldMapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldMapper{anki: anki, logger: logger}
}

func (m *FieldMapper) forBatch() *FieldMapper {
	return &FieldMapper{
		anki:   m.anki,
		logger: m.logger,
		batch:  true,
		fields: make(map[string][]string),
	}
}

// ResolveModel returns the note type to use for a card of kind. An empty
// request selects the kind default; an unknown one falls back to it.
func (m *FieldMapper) ResolveModel(ctx context.Context, kind domain.CardKind, requested string) (string, bool, error) {
	def := domain.DefaultModelFor(kind)
	name := requested
	if name == "" {
		name = def
	}

	models, err := m.modelNames(ctx)
	if err != nil {
		return "", false, err
	}
	if slices.Contains(models, name) {
		return name, false, nil
	}
	if name != def && slices.Contains(models, def) {
		m.logger.Info("note type not found, using default",
			zap.String("requested", name),
			zap.String("default", def),
		)
		return def, true, nil
	}
	return "", false, &domain.Error{
		Kind:    domain.KindNotFound,
		Op:      "resolve note type",
		Message: fmt.Sprintf("note type %q not found and default %q is unavailable", name, def),
		Err:     domain.ErrNoValidNoteType,
	}
}

// ToFields maps card onto the fields of noteType, or of the kind default
func (m *FieldMapper) ToFields(ctx context.Context, card domain.Card, noteType string) (*MappedFields, error) {
	model, fellBack, err := m.ResolveModel(ctx, card.Kind, noteType)
	if err != nil {
		return nil, err
	}

	names, schemaFallback := m.fieldNames(ctx, model, card.Kind)
	schema := domain.NoteTypeSchema{ModelName: model, FieldNames: names}

	return &MappedFields{
		ModelName:      model,
		Fields:         schema.MapFields(card),
		FellBack:       fellBack,
		SchemaFallback: schemaFallback,
	}, nil
}

func (m *FieldMapper) modelNames(ctx context.Context) ([]string, error) {
	if m.batch && m.models != nil {
		return m.models, nil
	}
	models, err := m.anki.ModelNames(ctx)
	if err != nil {
		return nil, err
	}
	if m.batch {
		m.models = models
	}
	return models, nil
}

func (m *FieldMapper) fieldNames(ctx context.Context, model string, kind domain.CardKind) ([]string, bool) {
	if m.batch {
		if names, ok := m.fields[model]; ok {
			return names, false
		}
	}
	names, err := m.anki.ModelFieldNames(ctx, model)
	if err != nil || len(names) == 0 {
		m.logger.Debug("using fallback fields",
			zap.String("model", model),
			zap.Error(err),
		)
		return domain.FallbackFields(kind), true
	}
	if m.batch {
		m.fields[model] = names
	}
	return names, false
}
