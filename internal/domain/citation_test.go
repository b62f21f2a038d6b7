package domain

import "testing"

func TestExtractYear(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2021-03-04", "2021"},
		{"March 1999", "1999"},
		{"", "n.d."},
		{"sometime", "n.d."},
		{"1850", "n.d."},
	}
	for _, tt := range tests {
		if got := ExtractYear(tt.date); got != tt.want {
			t.Errorf("ExtractYear(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestFormatAPA(t *testing.T) {
	tests := []struct {
		name string
		item ZoteroItem
		want string
	}{
		{
			name: "book",
			item: ZoteroItem{
				ItemType: "book",
				Title:    "Structure and Interpretation of Computer Programs",
				Date:     "1985",
				Creators: []Creator{
					{CreatorType: "author", FirstName: "Harold", LastName: "Abelson"},
					{CreatorType: "author", FirstName: "Gerald Jay", LastName: "Sussman"},
				},
				Fields: map[string]string{"publisher": "MIT Press"},
			},
			want: "Abelson, H., & Sussman, G. J. (1985). *Structure and Interpretation of Computer Programs*. MIT Press.",
		},
		{
			name: "journal article",
			item: ZoteroItem{
				ItemType: "journalArticle",
				Title:    "A Mathematical Theory of Communication",
				Date:     "July 1948",
				Creators: []Creator{{CreatorType: "author", FirstName: "Claude", LastName: "Shannon"}},
				Fields: map[string]string{
					"publicationTitle": "Bell System Technical Journal",
					"volume":           "27",
					"issue":            "3",
					"pages":            "379-423",
				},
			},
			want: "Shannon, C. (1948). A Mathematical Theory of Communication. *Bell System Technical Journal*, 27(3), 379-423.",
		},
		{
			name: "webpage falls back to site title",
			item: ZoteroItem{
				ItemType: "webpage",
				Title:    "Effective Go",
				Fields:   map[string]string{"websiteTitle": "go.dev", "url": "https://go.dev/doc/effective_go"},
			},
			want: "go.dev (n.d.). Effective Go. Retrieved from https://go.dev/doc/effective_go",
		},
		{
			name: "generic with editors only",
			item: ZoteroItem{
				ItemType: "report",
				Title:    "Annual Report",
				Date:     "2020",
				Creators: []Creator{{CreatorType: "editor", Name: "ACME Corp"}},
			},
			want: "ACME Corp (2020). Annual Report.",
		},
		{
			name: "three authors",
			item: ZoteroItem{
				ItemType: "thesis",
				Title:    "T",
				Date:     "2001",
				Creators: []Creator{
					{LastName: "A", FirstName: "Ann"},
					{LastName: "B", FirstName: "Bob"},
					{LastName: "C", FirstName: "Cy"},
				},
			},
			want: "A, A., B, B., & C, C. (2001). T.",
		},
		{
			name: "nothing known",
			item: ZoteroItem{ItemType: "document"},
			want: "Unknown Author (n.d.). Unknown Title.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAPA(tt.item); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
