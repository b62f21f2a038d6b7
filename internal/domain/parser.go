package domain

import (
	"regexp"
	"strings"
)

var (
	questionLabelRe = regexp.MustCompile(`(?i)\bQ:`)
	answerLabelRe   = regexp.MustCompile(`(?i)\bA:`)
	sectionSplitRe  = regexp.MustCompile(`\n\s*\n|---`)
	paragraphRe     = regexp.MustCompile(`\n\s*\n`)
)

// ParseCards segments free text into cards of the given kind and normalizes
// their math markup for target. Text without recognizable structure yields
// no cards.
//
// Front/back text written as Q:/A: pairs is read pair by pair across the
// whole text; loose text without any pair is read section by section, first
// line as front and the rest as back. When both styles are mixed only the
// Q:/A: pairs are used.
func ParseCards(text string, kind CardKind, target Target) []Card {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var cards []Card
	if kind == KindCloze {
		cards = parseCloze(text)
	} else {
		cards = parseQuestionAnswer(text)
		if len(cards) == 0 {
			cards = parseSections(text)
		}
	}

	for i := range cards {
		cards[i] = cards[i].Normalized(target)
	}
	return cards
}

func parseQuestionAnswer(text string) []Card {
	labels := questionLabelRe.FindAllStringIndex(text, -1)
	var cards []Card
	for i, loc := range labels {
		end := len(text)
		if i+1 < len(labels) {
			end = labels[i+1][0]
		}
		chunk := text[loc[1]:end]

		a := answerLabelRe.FindStringIndex(chunk)
		if a == nil {
			continue
		}
		front := strings.TrimSpace(chunk[:a[0]])
		back := strings.TrimSpace(chunk[a[1]:])
		if front == "" {
			continue
		}
		cards = append(cards, NewFrontBackCard(front, back))
	}
	return cards
}

func parseSections(text string) []Card {
	var cards []Card
	for _, section := range sectionSplitRe.Split(text, -1) {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		front, rest, ok := strings.Cut(section, "\n")
		if !ok {
			continue
		}
		front = strings.TrimSpace(front)
		back := strings.TrimSpace(rest)
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, NewFrontBackCard(front, back))
	}
	return cards
}

func parseCloze(text string) []Card {
	var cards []Card
	for _, section := range paragraphRe.Split(text, -1) {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		compiled, err := CompileCloze(section)
		if err != nil {
			continue
		}
		cards = append(cards, NewClozeCard(compiled))
	}
	return cards
}
