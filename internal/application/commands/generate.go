package commands

import (
	"context"
	"fmt"

	"github.com/xstraven/mcp-server-learning/internal/application"
	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// GenerateResult contains the cards parsed from free text
type GenerateResult struct {
	Cards   []domain.Card
	Kind    domain.CardKind
	Target  domain.Target
	Message string
}

// GenerateCommand turns free text into flashcards normalized for one target
type GenerateCommand struct {
	Text     string
	Kind     domain.CardKind
	Target   domain.Target
	Tags     []string
	NoteType string
}

// NewGenerateCommand creates a new GenerateCommand
func NewGenerateCommand(text string, kind domain.CardKind, target domain.Target) *GenerateCommand {
	return &GenerateCommand{
		Text:   text,
		Kind:   kind,
		Target: target,
	}
}

// Validate checks that there is text to parse
func (c *GenerateCommand) Validate() error {
	return application.ValidateRequired("text", c.Text)
}

// Execute parses the text. Finding no cards is not an error: the result is
// empty and the message says why.
func (c *GenerateCommand) Execute(ctx context.Context) (*GenerateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cards := domain.ParseCards(c.Text, c.Kind, c.Target)
	for i := range cards {
		cards[i].Tags = mergeTags(c.Tags, cards[i].Tags)
		if c.NoteType != "" {
			cards[i].NoteType = c.NoteType
		}
	}

	res := &GenerateResult{
		Cards:  cards,
		Kind:   c.Kind,
		Target: c.Target,
	}
	switch {
	case len(cards) == 0 && c.Kind == domain.KindCloze:
		res.Message = "No cloze cards found. Mark each deletion with {{double braces}}."
	case len(cards) == 0:
		res.Message = "No cards found. Use Q:/A: pairs or separate cards with blank lines or ---."
	case len(cards) == 1:
		res.Message = fmt.Sprintf("Generated 1 %s card", c.Kind)
	default:
		res.Message = fmt.Sprintf("Generated %d %s cards", len(cards), c.Kind)
	}
	return res, nil
}
