package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int // use this for relative comparisons
	}{
		{
			name:      "exact match",
			target:    "Eigenvalues",
			query:     "Eigenvalues",
			wantScore: 150, // 100 for contains + 50 for prefix
		},
		{
			name:      "prefix match",
			target:    "Eigenvalues and Eigenvectors",
			query:     "eigenvalues",
			wantScore: 150,
		},
		{
			name:      "substring match",
			target:    "Computing Eigenvalues",
			query:     "eigenvalues",
			wantScore: 100, // contains only
		},
		{
			name:    "fuzzy match in order",
			target:  "linear-algebra",
			query:   "la",
			wantMin: 1,
		},
		{
			name:    "initials",
			target:  "quantum mechanics",
			query:   "qm",
			wantMin: 1,
		},
		{
			name:      "no match",
			target:    "Eigenvalues",
			query:     "xyz",
			wantScore: 0,
		},
		{
			name:      "empty query",
			target:    "Eigenvalues",
			query:     "",
			wantScore: 0,
		},
		{
			name:    "case insensitive",
			target:  "FOURIER",
			query:   "fourier",
			wantMin: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FuzzyScore(tt.target, tt.query)

			if tt.wantScore > 0 {
				if score != tt.wantScore {
					t.Errorf("expected score %d, got %d", tt.wantScore, score)
				}
			} else if tt.wantMin > 0 {
				if score < tt.wantMin {
					t.Errorf("expected score >= %d, got %d", tt.wantMin, score)
				}
			} else {
				if score != 0 {
					t.Errorf("expected score 0, got %d", score)
				}
			}
		})
	}
}

func TestFuzzyScore_Ordering(t *testing.T) {
	query := "entropy"

	exactScore := FuzzyScore("entropy", query)
	prefixScore := FuzzyScore("entropy in physics", query)
	containsScore := FuzzyScore("shannon entropy", query)
	fuzzyScore := FuzzyScore("e-n-t-r-o-p-y", query)

	if exactScore < prefixScore {
		t.Errorf("exact match should score >= prefix: %d < %d", exactScore, prefixScore)
	}
	if prefixScore < containsScore {
		t.Errorf("prefix match should score >= contains: %d < %d", prefixScore, containsScore)
	}
	if containsScore <= fuzzyScore {
		t.Errorf("contains match should score higher than fuzzy: %d <= %d", containsScore, fuzzyScore)
	}
}

func TestRankNotes(t *testing.T) {
	notes := []domain.Note{
		{Name: "journal-2024-01-03", Title: "Daily log", Content: "read about entropy"},
		{Name: "entropy", Title: "Entropy"},
		{Name: "thermo", Title: "Thermodynamics", Tags: []string{"entropy"}},
		{Name: "info-theory", Title: "Shannon Entropy"},
	}

	ranked := RankNotes(notes, "entropy")

	if len(ranked) != len(notes) {
		t.Fatalf("expected %d results, got %d", len(notes), len(ranked))
	}
	if ranked[0].Name != "entropy" {
		t.Errorf("expected exact title match first, got %q", ranked[0].Name)
	}
	if ranked[len(ranked)-1].Name != "journal-2024-01-03" {
		t.Errorf("expected content-only match last, got %q", ranked[len(ranked)-1].Name)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("results not sorted by score: %d > %d at index %d",
				ranked[i].Score, ranked[i-1].Score, i)
		}
	}
}

// stubVault answers SearchNotes with a substring match over its notes
type stubVault struct {
	notes []domain.Note
}

func (v *stubVault) Root() string { return "/vault" }

func (v *stubVault) ListNotes(limit, offset int) ([]domain.Note, error) { return v.notes, nil }

func (v *stubVault) GetNote(name string) (*domain.Note, error) {
	for _, n := range v.notes {
		if n.Name == name {
			return &n, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (v *stubVault) SearchNotes(query string, searchIn []string, limit int) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range v.notes {
		if strings.Contains(strings.ToLower(n.Title+" "+n.Content), strings.ToLower(query)) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (v *stubVault) NotesByTag(tag string) ([]domain.Note, error) { return nil, nil }

func (v *stubVault) Backlinks(name string) ([]domain.Backlink, error) { return nil, nil }

func (v *stubVault) OrphanedNotes() ([]domain.Note, error) { return nil, nil }

func (v *stubVault) Stats() (*domain.VaultStats, error) { return &domain.VaultStats{}, nil }

func TestSearchVaultCommand(t *testing.T) {
	vault := &stubVault{notes: []domain.Note{
		{Name: "a", Title: "Notes", Content: "gradient descent"},
		{Name: "gradient-descent", Title: "Gradient Descent"},
		{Name: "b", Title: "Optimizers", Content: "momentum and gradient descent"},
		{Name: "c", Title: "Cooking"},
	}}

	t.Run("ranks and limits", func(t *testing.T) {
		results, err := NewSearchVaultCommand(vault, "gradient descent", nil, 2).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Name != "gradient-descent" {
			t.Errorf("expected title match first, got %q", results[0].Name)
		}
	})

	t.Run("short query", func(t *testing.T) {
		results, err := NewSearchVaultCommand(vault, "g", nil, 0).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results != nil {
			t.Errorf("expected no results for a one-character query, got %d", len(results))
		}
	})
}
