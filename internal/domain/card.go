package domain

import (
	"fmt"
	"strings"
)

// CardKind tells front/back cards from cloze cards
type CardKind int

const (
	KindFrontBack CardKind = iota
	KindCloze
)

func (k CardKind) String() string {
	if k == KindCloze {
		return "cloze"
	}
	return "front-back"
}

// ParseCardKind accepts "basic", "front-back", "front_back" and "cloze"
func ParseCardKind(s string) (CardKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "basic", "front-back", "front_back", "frontback", "qa":
		return KindFrontBack, nil
	case "cloze":
		return KindCloze, nil
	default:
		return 0, &Error{Kind: KindInputInvalid, Op: "parse card kind", Message: fmt.Sprintf("unknown card kind %q", s)}
	}
}

// Card is one atomic unit of study content.
// Front/Back are set for KindFrontBack, Text for KindCloze.
type Card struct {
	Kind  CardKind `json:"-"`
	Front string   `json:"front,omitempty"`
	Back  string   `json:"back,omitempty"`
	Text  string   `json:"text,omitempty"`

	// Optional per-card overrides used at upload time
	Tags     []string `json:"tags,omitempty"`
	NoteType string   `json:"note_type,omitempty"`
}

// NewFrontBackCard builds a front/back card
func NewFrontBackCard(front, back string) Card {
	return Card{Kind: KindFrontBack, Front: front, Back: back}
}

// NewClozeCard builds a cloze card from already compiled text
func NewClozeCard(text string) Card {
	return Card{Kind: KindCloze, Text: text}
}

// Normalized returns a copy of c with every text field normalized for target
func (c Card) Normalized(target Target) Card {
	out := c
	out.Front = Normalize(c.Front, target)
	out.Back = Normalize(c.Back, target)
	out.Text = Normalize(c.Text, target)
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	return out
}

// Summary is a one-line description used in logs and processing errors
func (c Card) Summary() string {
	s := c.Front
	if c.Kind == KindCloze {
		s = c.Text
	}
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return s
}
