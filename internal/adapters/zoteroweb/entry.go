package zoteroweb

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// entry is one object of a Web API listing; data holds the item's fields flat
type entry struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

type entryCreator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Name        string `json:"name"`
}

type entryTag struct {
	Tag string `json:"tag"`
}

// keys of data that are not plain string fields
var structuralKeys = map[string]bool{
	"key":          true,
	"version":      true,
	"itemType":     true,
	"creators":     true,
	"tags":         true,
	"collections":  true,
	"relations":    true,
	"dateAdded":    true,
	"dateModified": true,
	"parentItem":   true,
}

func (e entry) item() (domain.ZoteroItem, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Data, &raw); err != nil {
		return domain.ZoteroItem{}, fmt.Errorf("item %s: %w", e.Key, err)
	}

	item := domain.ZoteroItem{Key: e.Key, Fields: map[string]string{}}
	str := func(name string) string {
		var s string
		if v, ok := raw[name]; ok {
			_ = json.Unmarshal(v, &s)
		}
		return s
	}
	item.ItemType = str("itemType")
	item.DateAdded = str("dateAdded")
	item.DateModified = str("dateModified")

	if v, ok := raw["creators"]; ok {
		var creators []entryCreator
		if err := json.Unmarshal(v, &creators); err != nil {
			return domain.ZoteroItem{}, fmt.Errorf("item %s creators: %w", e.Key, err)
		}
		for _, c := range creators {
			item.Creators = append(item.Creators, domain.Creator(c))
		}
	}
	if v, ok := raw["tags"]; ok {
		var tags []entryTag
		if err := json.Unmarshal(v, &tags); err != nil {
			return domain.ZoteroItem{}, fmt.Errorf("item %s tags: %w", e.Key, err)
		}
		for _, t := range tags {
			item.Tags = append(item.Tags, t.Tag)
		}
	}

	for name, v := range raw {
		if structuralKeys[name] {
			continue
		}
		var s string
		if json.Unmarshal(v, &s) == nil && s != "" {
			item.Fields[name] = s
		}
	}
	item.Title = item.Fields["title"]
	item.Date = item.Fields["date"]
	return item, nil
}

var (
	htmlBreakRe = regexp.MustCompile(`(?i)</(p|div|li|h[1-6])>|<br\s*/?>`)
	htmlTagRe   = regexp.MustCompile(`<[^>]*>`)
)

// noteTitle derives a title from the first line of an HTML note, as Zotero does
func noteTitle(note string) string {
	text := htmlBreakRe.ReplaceAllString(note, "\n")
	text = html.UnescapeString(htmlTagRe.ReplaceAllString(text, ""))
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
