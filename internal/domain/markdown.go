package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Note is a parsed Obsidian markdown note
type Note struct {
	Path        string         `json:"path"` // relative to the vault root
	Name        string         `json:"name"` // file name without extension
	Title       string         `json:"title"`
	Content     string         `json:"content,omitempty"` // body without frontmatter
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Size        int64          `json:"size"`
	Modified    time.Time      `json:"modified"`
	Tags        []string       `json:"tags"`
	Wikilinks   []Wikilink     `json:"wikilinks,omitempty"`
	Headers     []Header       `json:"headers,omitempty"`
	Blocks      []Block        `json:"-"`
	ContentHash string         `json:"content_hash"`
	URI         string         `json:"uri,omitempty"`
}

// Wikilink is a [[target#header|display]] link
type Wikilink struct {
	Target  string `json:"target"`
	Display string `json:"display"`
	Header  string `json:"header,omitempty"`
	Raw     string `json:"raw"`
}

// Header is a markdown heading
type Header struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Anchor string `json:"anchor"`
}

// Block types
const (
	BlockParagraph    = "paragraph"
	BlockList         = "list"
	BlockNumberedList = "numbered_list"
	BlockQuote        = "quote"
	BlockHeader       = "header"
	BlockCode         = "code"
)

// Block is a run of lines of one kind
type Block struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Language  string `json:"language,omitempty"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Backlink is a link to a note from another note
type Backlink struct {
	SourceNote string `json:"source_note"`
	SourcePath string `json:"source_path"`
	LinkText   string `json:"link_text"`
	Header     string `json:"header,omitempty"`
}

// VaultStats summarizes a vault
type VaultStats struct {
	VaultPath      string         `json:"vault_path"`
	TotalNotes     int            `json:"total_notes"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	TotalTags      int            `json:"total_tags"`
	AllTags        []string       `json:"all_tags"`
	NoteTypes      map[string]int `json:"note_types"`
}

var (
	wikilinkRe     = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	inlineTagRe    = regexp.MustCompile(`(?m)(?:^|\s)#([A-Za-z0-9/_-]+)`)
	headerLineRe   = regexp.MustCompile(`^(#{1,6})\s+(.+)`)
	anchorStripRe  = regexp.MustCompile("[*_`]")
	anchorDropRe   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	anchorDashRe   = regexp.MustCompile(`[-\s]+`)
	listLineRe     = regexp.MustCompile(`^\s*[-*+]\s`)
	numberedLineRe = regexp.MustCompile(`^\s*\d+\.\s`)
	quoteLineRe    = regexp.MustCompile(`^\s*>\s`)
	headerPrefixRe = regexp.MustCompile(`^#{1,6}\s`)
)

// ParseFrontmatter splits YAML frontmatter from the body. Content without a
// leading --- block, or with invalid YAML, is returned whole with no frontmatter.
func ParseFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---") {
		return map[string]any{}, content
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return map[string]any{}, content
	}

	fm := map[string]any{}
	if raw := strings.TrimSpace(parts[1]); raw != "" {
		if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
			return map[string]any{}, content
		}
		if fm == nil {
			fm = map[string]any{}
		}
	}
	return fm, strings.TrimLeft(parts[2], "\n")
}

// ExtractWikilinks returns every [[...]] link in content, in order
func ExtractWikilinks(content string) []Wikilink {
	var links []Wikilink
	for _, m := range wikilinkRe.FindAllStringSubmatch(content, -1) {
		target, display, hasDisplay := strings.Cut(m[1], "|")
		if !hasDisplay {
			display = target
		}
		target, header, _ := strings.Cut(target, "#")
		links = append(links, Wikilink{
			Target:  strings.TrimSpace(target),
			Display: strings.TrimSpace(display),
			Header:  strings.TrimSpace(header),
			Raw:     m[0],
		})
	}
	return links
}

// ExtractTags merges frontmatter tags with inline #tags, sorted and deduplicated
func ExtractTags(content string, frontmatter map[string]any) []string {
	set := map[string]struct{}{}
	switch v := frontmatter["tags"].(type) {
	case string:
		if v != "" {
			set[v] = struct{}{}
		}
	case []any:
		for _, t := range v {
			if s := fmt.Sprint(t); s != "" {
				set[s] = struct{}{}
			}
		}
	}

	inCode := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		for _, m := range inlineTagRe.FindAllStringSubmatch(line, -1) {
			set[m[1]] = struct{}{}
		}
	}

	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// ExtractHeaders returns the markdown headings of content with 1-based line numbers
func ExtractHeaders(content string) []Header {
	var headers []Header
	for i, line := range strings.Split(content, "\n") {
		m := headerLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		headers = append(headers, Header{
			Level:  len(m[1]),
			Text:   text,
			Line:   i + 1,
			Anchor: HeaderAnchor(text),
		})
	}
	return headers
}

// HeaderAnchor builds the Obsidian-style anchor for a heading
func HeaderAnchor(text string) string {
	s := anchorStripRe.ReplaceAllString(text, "")
	s = anchorDropRe.ReplaceAllString(strings.ToLower(s), "")
	s = anchorDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExtractBlocks groups content lines into typed blocks. Blank lines end a
// block; fenced code is one block whatever it contains.
func ExtractBlocks(content string) []Block {
	lines := strings.Split(content, "\n")

	var (
		blocks  []Block
		current []string
		kind    string
		start   int
		inCode  bool
		lang    string
	)
	flush := func(end int) {
		if len(current) == 0 {
			return
		}
		t := kind
		if t == "" {
			t = BlockParagraph
		}
		blocks = append(blocks, Block{Type: t, Content: strings.Join(current, "\n"), StartLine: start, EndLine: end})
		current = nil
		kind = ""
	}

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if !inCode {
				flush(lineNo - 1)
				inCode = true
				lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
				if lang == "" {
					lang = "text"
				}
				start = lineNo
				continue
			}
			blocks = append(blocks, Block{
				Type:      BlockCode,
				Content:   strings.Join(current, "\n"),
				Language:  lang,
				StartLine: start,
				EndLine:   lineNo,
			})
			current = nil
			inCode = false
			continue
		}
		if inCode {
			current = append(current, line)
			continue
		}

		if trimmed == "" {
			flush(lineNo - 1)
			continue
		}

		lineKind := blockKind(line)
		if lineKind != kind && len(current) > 0 {
			flush(lineNo - 1)
		}
		if len(current) == 0 {
			start = lineNo
		}
		kind = lineKind
		current = append(current, line)
	}
	if inCode {
		kind = BlockCode
	}
	flush(len(lines))
	return blocks
}

func blockKind(line string) string {
	switch {
	case listLineRe.MatchString(line):
		return BlockList
	case numberedLineRe.MatchString(line):
		return BlockNumberedList
	case quoteLineRe.MatchString(line):
		return BlockQuote
	case headerPrefixRe.MatchString(line):
		return BlockHeader
	default:
		return BlockParagraph
	}
}

// ParseNote builds a Note from raw file content. Path, size and timestamps
// are filled in by the caller.
func ParseNote(name, content string) Note {
	fm, body := ParseFrontmatter(content)
	title := name
	if t, ok := fm["title"].(string); ok && t != "" {
		title = t
	}
	return Note{
		Name:        name,
		Title:       title,
		Content:     body,
		Frontmatter: fm,
		Tags:        ExtractTags(body, fm),
		Wikilinks:   ExtractWikilinks(content),
		Headers:     ExtractHeaders(body),
		Blocks:      ExtractBlocks(body),
	}
}

// HasTag reports whether the note carries tag, ignoring case
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Type returns the frontmatter type, "note" when unset
func (n Note) Type() string {
	if t, ok := n.Frontmatter["type"].(string); ok && t != "" {
		return t
	}
	return "note"
}
