package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Study material kinds pulled from a note
const (
	ContentHeaders     = "headers"
	ContentDefinitions = "definitions"
	ContentLists       = "lists"
	ContentQuotes      = "quotes"
)

// AllContentTypes is used when the caller does not choose
var AllContentTypes = []string{ContentHeaders, ContentDefinitions, ContentLists, ContentQuotes}

// StudyItem is a piece of a note that can seed a flashcard
type StudyItem struct {
	Type       string `json:"type"`
	Question   string `json:"question,omitempty"`
	Content    string `json:"content,omitempty"`
	Context    string `json:"context,omitempty"`
	SourceNote string `json:"source_note"`
	SourceLine int    `json:"source_line,omitempty"`
}

var (
	definitionRe = regexp.MustCompile(`(?i)\b(is|are|means|refers to|defined as)\b`)
	listMarkerRe = regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s*`)
	quoteMarkRe  = regexp.MustCompile(`(?m)^\s*>\s*`)
)

// ExtractStudyItems pulls flashcard material out of note: H1-H3 headings,
// definition sentences, list items of four or more words and quotes.
func ExtractStudyItems(note Note, types []string) []StudyItem {
	if len(types) == 0 {
		types = AllContentTypes
	}
	want := map[string]bool{}
	for _, t := range types {
		want[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var items []StudyItem

	if want[ContentHeaders] {
		for _, h := range note.Headers {
			if h.Level > 3 {
				continue
			}
			items = append(items, StudyItem{
				Type:       "header",
				Question:   fmt.Sprintf("What is covered under: %s?", h.Text),
				Context:    h.Text,
				SourceNote: note.Name,
				SourceLine: h.Line,
			})
		}
	}

	if want[ContentDefinitions] {
		for _, b := range note.Blocks {
			if b.Type != BlockParagraph || !definitionRe.MatchString(b.Content) {
				continue
			}
			for _, sentence := range strings.Split(b.Content, ".") {
				sentence = strings.TrimSpace(sentence)
				if sentence == "" || !definitionRe.MatchString(sentence) {
					continue
				}
				items = append(items, StudyItem{
					Type:       "definition",
					Content:    sentence,
					SourceNote: note.Name,
					SourceLine: b.StartLine,
				})
			}
		}
	}

	if want[ContentLists] {
		for _, b := range note.Blocks {
			if b.Type != BlockList && b.Type != BlockNumberedList {
				continue
			}
			for _, line := range strings.Split(b.Content, "\n") {
				clean := strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
				if len(strings.Fields(clean)) <= 3 {
					continue
				}
				items = append(items, StudyItem{
					Type:       "list_item",
					Content:    clean,
					Context:    "Item from list in " + note.Name,
					SourceNote: note.Name,
					SourceLine: b.StartLine,
				})
			}
		}
	}

	if want[ContentQuotes] {
		for _, b := range note.Blocks {
			if b.Type != BlockQuote {
				continue
			}
			items = append(items, StudyItem{
				Type:       "quote",
				Content:    quoteMarkRe.ReplaceAllString(b.Content, ""),
				SourceNote: note.Name,
				SourceLine: b.StartLine,
			})
		}
	}

	return items
}
