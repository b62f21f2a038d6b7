package domain

import (
	"strings"
	"testing"
)

func TestToPresentationDelimiters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"display dollars", "Display $$x^2$$ math", `Display \[x^2\] math`},
		{"inline dollars", "Inline $x$ math", `Inline \[x\] math`},
		{"paren delimiters", `Paren \(a+b\) here`, `Paren \[a+b\] here`},
		{"double before single", "$a$ and $$b$$", `\[a\] and \[b\]`},
		{"already display", `Mixed \[a\] and \[b\]`, `Mixed \[a\] and \[b\]`},
		{"dollars inside display are protected", `\[ $x$ \]`, `\[ $x$ \]`},
		{"escaped dollar", `price \$5 only`, `price \$5 only`},
		{"unterminated dollar", "unterminated $x and more", "unterminated $x and more"},
		{"span never crosses newline", "line $a\nb$ end", "line $a\nb$ end"},
		{"no math", "plain text", "plain text"},
		{"multiline paren", "\\(a\n+b\\)", "\\[a\n+b\\]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPresentationDelimiters(tt.input)
			if got != tt.want {
				t.Errorf("ToPresentationDelimiters(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToPresentationDelimiters_Idempotent(t *testing.T) {
	inputs := []string{
		`\[x^2\]`,
		`Both \[a\] and \[b + c\] here`,
		"Inline $x$ and $$y$$ and \\(z\\)",
		`\[ \frac{1}{2} \]`,
	}
	for _, in := range inputs {
		once := ToPresentationDelimiters(in)
		twice := ToPresentationDelimiters(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestToRemoteMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"inline", "Inline $x^2$ math", `Inline \(x^2\) math`},
		{"display", "Display $$x^2$$ math", `Display \[x^2\] math`},
		{"double before single", "$a$ then $$b$$", `\(a\) then \[b\]`},
		{"existing spans untouched", `keep \(a\) and \[b\]`, `keep \(a\) and \[b\]`},
		{"dollars inside existing span", `\(a $b$\)`, `\(a $b$\)`},
		{"unterminated", "cost $5", "cost $5"},
		{"adjacent double dollar is not two singles", "$$", "$$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRemoteMarkup(tt.input)
			if got != tt.want {
				t.Errorf("ToRemoteMarkup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToRemoteMarkup_NoBareDollars(t *testing.T) {
	inputs := []string{
		"$a$",
		"$$a$$",
		"first $x$ then $$y$$ then $z$",
		"multi\n$a$\n$$b\nc$$",
	}
	for _, in := range inputs {
		if out := ToRemoteMarkup(in); strings.Contains(out, "$") {
			t.Errorf("ToRemoteMarkup(%q) = %q, still holds a dollar", in, out)
		}
	}
}

func TestUnescapeLiteralDollars(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{`costs \$100`, "costs $100"},
		{"$x$", "$x$"},
		{`\(x\)`, `\(x\)`},
	}
	for _, tt := range tests {
		if got := UnescapeLiteralDollars(tt.input); got != tt.want {
			t.Errorf("UnescapeLiteralDollars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target Target
		want   string
	}{
		{"chat keeps delimiters", `\$100 and $x$`, TargetChat, "$100 and $x$"},
		{"anki", `\$5 for $x$`, TargetAnki, `$5 for \(x\)`},
		{"preview", `\$5 for $x$`, TargetPreview, `$5 for \[x\]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input, tt.target); got != tt.want {
				t.Errorf("Normalize(%q, %s) = %q, want %q", tt.input, tt.target, got, tt.want)
			}
		})
	}
}

func TestParseTarget(t *testing.T) {
	tests := map[string]Target{
		"anki":    TargetAnki,
		"ANKI":    TargetAnki,
		"preview": TargetPreview,
		"html":    TargetPreview,
		"chat":    TargetChat,
		"":        TargetChat,
	}
	for in, want := range tests {
		if got := ParseTarget(in); got != want {
			t.Errorf("ParseTarget(%q) = %s, want %s", in, got, want)
		}
	}
}
