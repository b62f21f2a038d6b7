package commands

import (
	"context"
	"sort"
	"strings"

	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// SearchResult is a vault note with its relevance score
type SearchResult struct {
	domain.Note
	Score int `json:"score"`
}

// SearchVaultCommand searches the vault and ranks notes with fuzzy matching
type SearchVaultCommand struct {
	vault    ports.NoteVault
	Query    string
	SearchIn []string
	Limit    int
}

// NewSearchVaultCommand creates a new SearchVaultCommand
func NewSearchVaultCommand(vault ports.NoteVault, query string, searchIn []string, limit int) *SearchVaultCommand {
	return &SearchVaultCommand{
		vault:    vault,
		Query:    query,
		SearchIn: searchIn,
		Limit:    limit,
	}
}

// Execute runs the search and returns scored, sorted results
func (c *SearchVaultCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(strings.TrimSpace(c.Query)) < 2 {
		return nil, nil
	}

	notes, err := c.vault.SearchNotes(c.Query, c.SearchIn, 0)
	if err != nil {
		return nil, err
	}

	results := RankNotes(notes, c.Query)
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}
	return results, nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '-' || target[i-1] == '_' || target[i-1] == '/') {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// RankNotes orders notes by how well their title, name or tags match query.
// Notes matched only on content keep a minimal score and sort last.
func RankNotes(notes []domain.Note, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(notes))

	for _, n := range notes {
		best := max(FuzzyScore(n.Title, query), FuzzyScore(n.Name, query))
		for _, tag := range n.Tags {
			best = max(best, FuzzyScore(tag, query)/2)
		}
		if best == 0 {
			best = 1
		}
		scored = append(scored, SearchResult{Note: n, Score: best})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
