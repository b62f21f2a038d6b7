package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ExtractYear returns the first four-digit year in date, or "n.d."
func ExtractYear(date string) string {
	if y := yearRe.FindString(date); y != "" {
		return y
	}
	return "n.d."
}

// FormatAPA renders item as an APA-style reference. Titles of books and
// journals are wrapped in *...* for markdown italics.
func FormatAPA(item ZoteroItem) string {
	year := ExtractYear(item.Date)
	title := item.Title
	if title == "" {
		title = "Unknown Title"
	}

	switch item.ItemType {
	case "book":
		s := fmt.Sprintf("%s (%s). *%s*", apaAuthors(item, "Unknown Author"), year, title)
		if p := item.Field("publisher"); p != "" {
			s += ". " + p
		}
		return s + "."

	case "journalArticle":
		s := fmt.Sprintf("%s (%s). %s. *%s*", apaAuthors(item, "Unknown Author"), year, title, item.Field("publicationTitle"))
		if v := item.Field("volume"); v != "" {
			s += ", " + v
		}
		if is := item.Field("issue"); is != "" {
			s += "(" + is + ")"
		}
		if p := item.Field("pages"); p != "" {
			s += ", " + p
		}
		return s + "."

	case "webpage":
		fallback := item.Field("websiteTitle")
		if fallback == "" {
			fallback = "Unknown Author"
		}
		s := fmt.Sprintf("%s (%s). %s", apaAuthors(item, fallback), year, title)
		if u := item.Field("url"); u != "" {
			s += ". Retrieved from " + u
		}
		return s

	default:
		return fmt.Sprintf("%s (%s). %s.", apaAuthors(item, "Unknown Author"), year, title)
	}
}

// apaAuthors formats "Last, F." names joined APA style:
// one "A", two "A, & B", more "A, B, & C"
func apaAuthors(item ZoteroItem, fallback string) string {
	var names []string
	for _, c := range item.Authors() {
		if n := apaName(c); n != "" {
			names = append(names, n)
		}
	}

	switch len(names) {
	case 0:
		return fallback
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}
}

func apaName(c Creator) string {
	if c.LastName == "" {
		return strings.TrimSpace(c.Name)
	}
	var initials []string
	for _, part := range strings.Fields(c.FirstName) {
		r, _ := utf8.DecodeRuneInString(part)
		initials = append(initials, string(r)+".")
	}
	if len(initials) == 0 {
		return c.LastName
	}
	return c.LastName + ", " + strings.Join(initials, " ")
}
