package filesystem

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// Vault implements ports.NoteVault by scanning an Obsidian vault on disk
type Vault struct {
	root   string
	opener ports.ObsidianOpener
}

var _ ports.NoteVault = (*Vault)(nil)

// NewVault opens the vault at root. opener may be nil, in which case notes carry no URI.
func NewVault(root string, opener ports.ObsidianOpener) (*Vault, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(root, "~") {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, root[1:])
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, domain.WrapError(domain.KindNotFound, "open vault", err)
	}
	if !info.IsDir() {
		return nil, domain.NewError(domain.KindInputInvalid, "open vault", fmt.Sprintf("%s is not a directory", abs))
	}
	return &Vault{root: abs, opener: opener}, nil
}

func (v *Vault) Root() string { return v.root }

// ListNotes returns notes newest first
func (v *Vault) ListNotes(limit, offset int) ([]domain.Note, error) {
	notes, err := v.allNotes()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Modified.After(notes[j].Modified)
	})
	return page(notes, limit, offset), nil
}

// GetNote finds a note by name, ignoring case, or by its path relative to the vault
func (v *Vault) GetNote(name string) (*domain.Note, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.KindInputInvalid, "get note", "note name is required")
	}

	if strings.ContainsAny(name, `/\`) || strings.HasSuffix(name, ".md") {
		path, err := v.resolve(name)
		if err != nil {
			return nil, err
		}
		note, err := v.readNote(path)
		if os.IsNotExist(err) {
			return nil, domain.NewError(domain.KindNotFound, "get note", fmt.Sprintf("note %q not found", name))
		}
		if err != nil {
			return nil, err
		}
		return note, nil
	}

	notes, err := v.allNotes()
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if strings.EqualFold(notes[i].Name, name) {
			return &notes[i], nil
		}
	}
	return nil, domain.NewError(domain.KindNotFound, "get note", fmt.Sprintf("note %q not found", name))
}

// SearchNotes matches query, ignoring case, against content, title and tags
func (v *Vault) SearchNotes(query string, searchIn []string, limit int) ([]domain.Note, error) {
	if len(searchIn) == 0 {
		searchIn = []string{"content", "title", "tags"}
	}
	in := make(map[string]bool, len(searchIn))
	for _, s := range searchIn {
		in[strings.ToLower(s)] = true
	}
	q := strings.ToLower(query)

	notes, err := v.allNotes()
	if err != nil {
		return nil, err
	}

	var matches []domain.Note
	for _, n := range notes {
		if noteMatches(n, q, in) {
			matches = append(matches, n)
		}
	}
	return page(matches, limit, 0), nil
}

func noteMatches(n domain.Note, q string, in map[string]bool) bool {
	if in["content"] && strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	if in["title"] && strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	if in["tags"] {
		for _, t := range n.Tags {
			if strings.Contains(strings.ToLower(t), q) {
				return true
			}
		}
	}
	return false
}

// NotesByTag returns notes carrying tag, ignoring case
func (v *Vault) NotesByTag(tag string) ([]domain.Note, error) {
	tag = strings.TrimPrefix(tag, "#")
	notes, err := v.allNotes()
	if err != nil {
		return nil, err
	}
	var tagged []domain.Note
	for _, n := range notes {
		if n.HasTag(tag) {
			tagged = append(tagged, n)
		}
	}
	return tagged, nil
}

// Backlinks lists every wikilink that targets the note called name
func (v *Vault) Backlinks(name string) ([]domain.Backlink, error) {
	notes, err := v.allNotes()
	if err != nil {
		return nil, err
	}
	var links []domain.Backlink
	for _, n := range notes {
		for _, l := range n.Wikilinks {
			if strings.EqualFold(l.Target, name) {
				links = append(links, domain.Backlink{
					SourceNote: n.Name,
					SourcePath: n.Path,
					LinkText:   l.Display,
					Header:     l.Header,
				})
			}
		}
	}
	return links, nil
}

// OrphanedNotes returns notes with neither outgoing nor incoming wikilinks
func (v *Vault) OrphanedNotes() ([]domain.Note, error) {
	notes, err := v.allNotes()
	if err != nil {
		return nil, err
	}

	linked := make(map[string]bool)
	for _, n := range notes {
		for _, l := range n.Wikilinks {
			linked[strings.ToLower(l.Target)] = true
		}
	}

	var orphans []domain.Note
	for _, n := range notes {
		if len(n.Wikilinks) == 0 && !linked[strings.ToLower(n.Name)] {
			orphans = append(orphans, n)
		}
	}
	return orphans, nil
}

// Stats summarizes note count, size, tags and frontmatter types
func (v *Vault) Stats() (*domain.VaultStats, error) {
	notes, err := v.allNotes()
	if err != nil {
		return nil, err
	}

	stats := &domain.VaultStats{
		VaultPath: v.root,
		NoteTypes: make(map[string]int),
		AllTags:   []string{},
	}
	tags := make(map[string]bool)
	for _, n := range notes {
		stats.TotalNotes++
		stats.TotalSizeBytes += n.Size
		stats.NoteTypes[n.Type()]++
		for _, t := range n.Tags {
			tags[t] = true
		}
	}
	for t := range tags {
		stats.AllTags = append(stats.AllTags, t)
	}
	sort.Strings(stats.AllTags)
	stats.TotalTags = len(stats.AllTags)
	return stats, nil
}

// allNotes parses every markdown file, skipping hidden directories such as .obsidian
func (v *Vault) allNotes() ([]domain.Note, error) {
	var notes []domain.Note
	err := filepath.Walk(v.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}

		if info.IsDir() {
			if path != v.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		note, err := v.readNote(path)
		if err != nil {
			return nil // Skip notes that cannot be read
		}
		notes = append(notes, *note)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault: %w", err)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Path < notes[j].Path
	})
	return notes, nil
}

func (v *Vault) readNote(path string) (*domain.Note, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	note := domain.ParseNote(name, string(content))

	rel, err := filepath.Rel(v.root, path)
	if err != nil {
		return nil, err
	}
	note.Path = filepath.ToSlash(rel)
	note.Size = info.Size()
	note.Modified = info.ModTime()
	sum := md5.Sum(content)
	note.ContentHash = hex.EncodeToString(sum[:])

	if v.opener != nil {
		if uri, err := v.opener.BuildURI(path); err == nil {
			note.URI = uri
		}
	}
	return &note, nil
}

// resolve turns a vault-relative path into an absolute one, refusing paths that leave the vault
func (v *Vault) resolve(rel string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(rel), ".md") {
		rel += ".md"
	}
	path := filepath.Join(v.root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(v.root, path)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", domain.NewError(domain.KindInputInvalid, "get note", fmt.Sprintf("path %q is outside the vault", rel))
	}
	return path, nil
}

func page(notes []domain.Note, limit, offset int) []domain.Note {
	if offset >= len(notes) {
		return []domain.Note{}
	}
	if offset > 0 {
		notes = notes[offset:]
	}
	if limit > 0 && limit < len(notes) {
		notes = notes[:limit]
	}
	return notes
}
