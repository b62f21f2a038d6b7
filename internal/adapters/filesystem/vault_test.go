package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xstraven/mcp-server-learning/internal/adapters/obsidian"
	"github.com/xstraven/mcp-server-learning/internal/domain"
)

func writeNote(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupTestVault(t *testing.T) *Vault {
	t.Helper()
	root := t.TempDir()

	writeNote(t, root, "Eigenvalues.md", `---
title: Eigenvalues and eigenvectors
type: concept
tags: [math]
---
# Eigenvalues

An eigenvalue is a scalar that stretches its eigenvector. See [[Linear maps|maps]].
`)
	writeNote(t, root, "Algebra/Linear maps.md", "# Linear maps\n\nA linear map preserves addition. #math/linear\n")
	writeNote(t, root, "Inbox/Loose idea.md", "Nothing links here.\n")
	writeNote(t, root, ".obsidian/workspace.md", "[[Eigenvalues]]\n")
	writeNote(t, root, "attachments/figure.png", "not markdown")

	v, err := NewVault(root, obsidian.NewOpener(root, ""))
	require.NoError(t, err)
	return v
}

func TestNewVault_MissingDir(t *testing.T) {
	_, err := NewVault(filepath.Join(t.TempDir(), "nope"), nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVault_ListNotes(t *testing.T) {
	v := setupTestVault(t)

	notes, err := v.ListNotes(0, 0)
	require.NoError(t, err)
	require.Len(t, notes, 3, ".obsidian and non-markdown files are skipped")

	paths := map[string]bool{}
	for _, n := range notes {
		paths[n.Path] = true
		assert.NotEmpty(t, n.ContentHash)
		assert.Contains(t, n.URI, "obsidian://open?vault=")
	}
	assert.True(t, paths["Algebra/Linear maps.md"])

	paged, err := v.ListNotes(2, 2)
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	beyond, err := v.ListNotes(10, 5)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestVault_GetNote(t *testing.T) {
	v := setupTestVault(t)

	note, err := v.GetNote("eigenvalues")
	require.NoError(t, err)
	assert.Equal(t, "Eigenvalues and eigenvectors", note.Title)
	assert.Equal(t, "concept", note.Type())
	assert.Equal(t, []string{"math"}, note.Tags)
	require.Len(t, note.Wikilinks, 1)
	assert.Equal(t, "Linear maps", note.Wikilinks[0].Target)

	byPath, err := v.GetNote("Algebra/Linear maps")
	require.NoError(t, err)
	assert.Equal(t, "Linear maps", byPath.Name)

	_, err = v.GetNote("Missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = v.GetNote("../outside.md")
	assert.True(t, errors.Is(err, domain.ErrInputInvalid))
}

func TestVault_SearchNotes(t *testing.T) {
	v := setupTestVault(t)

	tests := []struct {
		name     string
		query    string
		searchIn []string
		want     []string
	}{
		{"content", "preserves addition", nil, []string{"Linear maps"}},
		{"title only", "eigenvectors", []string{"title"}, []string{"Eigenvalues"}},
		{"title misses content", "stretches", []string{"title"}, nil},
		{"tags", "linear", []string{"tags"}, []string{"Linear maps"}},
		{"case insensitive", "NOTHING LINKS", nil, []string{"Loose idea"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := v.SearchNotes(tt.query, tt.searchIn, 0)
			require.NoError(t, err)
			var names []string
			for _, n := range notes {
				names = append(names, n.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestVault_NotesByTag(t *testing.T) {
	v := setupTestVault(t)

	notes, err := v.NotesByTag("#MATH")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Eigenvalues", notes[0].Name)
}

func TestVault_BacklinksAndOrphans(t *testing.T) {
	v := setupTestVault(t)

	links, err := v.Backlinks("linear maps")
	require.NoError(t, err)
	assert.Equal(t, []domain.Backlink{
		{SourceNote: "Eigenvalues", SourcePath: "Eigenvalues.md", LinkText: "maps"},
	}, links)

	orphans, err := v.OrphanedNotes()
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "Loose idea", orphans[0].Name)
}

func TestVault_Stats(t *testing.T) {
	v := setupTestVault(t)

	stats, err := v.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalNotes)
	assert.Equal(t, []string{"math", "math/linear"}, stats.AllTags)
	assert.Equal(t, 2, stats.TotalTags)
	assert.Equal(t, map[string]int{"concept": 1, "note": 2}, stats.NoteTypes)
	assert.Positive(t, stats.TotalSizeBytes)
}
