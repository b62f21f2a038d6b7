// Package terminal renders CLI output with lipgloss.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	CardBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)

	ClozeMark = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)
)

// Card renders one card in a bordered box, numbered from 1
func Card(n int, c domain.Card) string {
	var b strings.Builder
	b.WriteString(Title.Render(fmt.Sprintf("#%d %s", n, c.Kind)))
	b.WriteString("\n")
	if c.Kind == domain.KindCloze {
		b.WriteString(highlightCloze(c.Text))
	} else {
		b.WriteString(Label.Render("Q ") + c.Front + "\n")
		b.WriteString(Label.Render("A ") + c.Back)
	}
	if len(c.Tags) > 0 {
		b.WriteString("\n" + MutedText.Render(strings.Join(c.Tags, " ")))
	}
	return CardBox.Render(b.String())
}

// Cards renders a list of cards separated by blank lines
func Cards(cards []domain.Card) string {
	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		parts = append(parts, Card(i+1, c))
	}
	return strings.Join(parts, "\n")
}

// highlightCloze colors every {{c1::...}} deletion
func highlightCloze(text string) string {
	var b strings.Builder
	for {
		start := strings.Index(text, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(text[start:], "}}")
		if end < 0 {
			break
		}
		end += start + 2
		b.WriteString(text[:start])
		b.WriteString(ClozeMark.Render(text[start:end]))
		text = text[end:]
	}
	b.WriteString(text)
	return b.String()
}

// UploadSummary renders the outcome of an upload, one line per fact
func UploadSummary(r *domain.UploadBatchResult) string {
	var lines []string
	status := Success.Render("✓ upload finished")
	if !r.Success {
		status = ErrorMsg.Render("✗ upload failed")
	}
	lines = append(lines, status)
	lines = append(lines, fmt.Sprintf("%s %s", Label.Render("deck"), r.DeckName))
	lines = append(lines, fmt.Sprintf("%s %d of %d", Label.Render("uploaded"), r.SuccessfulUploads, r.TotalCards))
	if n := r.Skipped(); n > 0 {
		lines = append(lines, WarningMsg.Render(fmt.Sprintf("skipped %d duplicates", n)))
	}
	if r.FailedUploads > 0 {
		lines = append(lines, ErrorMsg.Render(fmt.Sprintf("%d failed", r.FailedUploads)))
	}
	for _, pe := range r.ProcessingErrors {
		lines = append(lines, MutedText.Render("  "+pe.Context+": "+pe.Message))
	}
	for _, w := range r.Warnings {
		lines = append(lines, WarningMsg.Render("  "+w))
	}
	if r.Error != "" {
		lines = append(lines, ErrorMsg.Render(r.Error))
	}
	return strings.Join(lines, "\n")
}
