// Package render turns flashcards into a standalone HTML preview document
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

//go:embed templates/preview.html.tmpl
var templateFS embed.FS

var previewTmpl = template.Must(template.ParseFS(templateFS, "templates/preview.html.tmpl"))

// DefaultTitle is used when the caller gives no document title
const DefaultTitle = "Flashcard Preview"

type previewCard struct {
	Cloze    bool
	Front    string
	Back     string
	Segments []domain.ClozeSegment
	Tags     []string
}

type previewPage struct {
	Title string
	Cards []previewCard
}

// Preview renders cards as an HTML page with MathJax. Cards are expected to
// be parsed for domain.TargetPreview.
func Preview(title string, cards []domain.Card) (string, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	page := previewPage{Title: title, Cards: make([]previewCard, 0, len(cards))}
	for _, c := range cards {
		pc := previewCard{Tags: c.Tags}
		if c.Kind == domain.KindCloze {
			pc.Cloze = true
			pc.Segments = domain.SplitCloze(c.Text)
		} else {
			pc.Front = c.Front
			pc.Back = c.Back
		}
		page.Cards = append(page.Cards, pc)
	}

	var buf bytes.Buffer
	if err := previewTmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.String(), nil
}
