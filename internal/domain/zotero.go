package domain

import "strings"

// Zotero item types that are attachments to other items rather than references
var zoteroChildTypes = map[string]bool{
	"note":       true,
	"attachment": true,
	"annotation": true,
}

// IsReferenceType reports whether a Zotero item type is a citable reference
func IsReferenceType(itemType string) bool {
	return !zoteroChildTypes[itemType]
}

// ZoteroChildTypes lists the item types excluded from reference listings
func ZoteroChildTypes() []string {
	return []string{"annotation", "attachment", "note"}
}

// Creator is an author, editor or other contributor of a Zotero item
type Creator struct {
	CreatorType string `json:"creator_type"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Name        string `json:"name,omitempty"` // single-field names, e.g. organizations
}

// DisplayName returns "First Last" or the single-field name
func (c Creator) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ZoteroItem is a reference from a Zotero library
type ZoteroItem struct {
	Key          string            `json:"key"`
	ItemType     string            `json:"item_type"`
	Title        string            `json:"title"`
	Creators     []Creator         `json:"creators,omitempty"`
	Date         string            `json:"date,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	DateAdded    string            `json:"date_added,omitempty"`
	DateModified string            `json:"date_modified,omitempty"`
}

// Field returns a raw Zotero field value, or "" when unset
func (i ZoteroItem) Field(name string) string {
	if i.Fields == nil {
		return ""
	}
	return i.Fields[name]
}

// Authors returns the creators of type author, or all creators when none is typed author
func (i ZoteroItem) Authors() []Creator {
	var authors []Creator
	for _, c := range i.Creators {
		if c.CreatorType == "" || c.CreatorType == "author" {
			authors = append(authors, c)
		}
	}
	if len(authors) == 0 {
		return i.Creators
	}
	return authors
}

// ZoteroCollection is a folder in a Zotero library
type ZoteroCollection struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	ParentKey string `json:"parent_key,omitempty"`
}

// ZoteroNote is a child note attached to a Zotero item
type ZoteroNote struct {
	Key   string `json:"key"`
	Title string `json:"title,omitempty"`
	Note  string `json:"note"`
}
