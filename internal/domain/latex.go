package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Target selects the math convention of the renderer that will display a card
type Target int

const (
	// TargetChat keeps dollar delimiters for clients that render them natively
	TargetChat Target = iota
	// TargetAnki rewrites to Anki's MathJax convention, \(...\) inline and \[...\] display
	TargetAnki
	// TargetPreview rewrites every math span to display form \[...\]
	TargetPreview
)

func (t Target) String() string {
	switch t {
	case TargetAnki:
		return "anki"
	case TargetPreview:
		return "preview"
	default:
		return "chat"
	}
}

// ParseTarget maps a target name to a Target, defaulting to TargetChat
func ParseTarget(name string) Target {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "anki":
		return TargetAnki
	case "preview", "html":
		return TargetPreview
	default:
		return TargetChat
	}
}

// Private-use runes bracket shield tokens; they never occur in card text.
const (
	shieldOpen  = "\uE000"
	shieldClose = "\uE001"
)

var (
	displaySpanRe  = regexp.MustCompile(`(?s)\\\[.*?\\\]`)
	inlineSpanRe   = regexp.MustCompile(`(?s)\\\(.*?\\\)`)
	parenMathRe    = regexp.MustCompile(`(?s)\\\((.+?)\\\)`)
	doubleDollarRe = regexp.MustCompile(`\$\$([^$]+?)\$\$`)
	placeholderRe  = regexp.MustCompile(shieldOpen + `(\d+)` + shieldClose)
)

// mathShield swaps finished math spans for opaque tokens so later rewrites
// cannot touch them.
type mathShield struct {
	spans []string
}

func (s *mathShield) token(span string) string {
	s.spans = append(s.spans, span)
	return shieldOpen + strconv.Itoa(len(s.spans)-1) + shieldClose
}

func (s *mathShield) protect(re *regexp.Regexp, text string) string {
	return re.ReplaceAllStringFunc(text, s.token)
}

// rewrite replaces each match of re with open+group1+close and shields the result
func (s *mathShield) rewrite(re *regexp.Regexp, text, open, close string) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		sub := re.FindStringSubmatch(m)
		return s.token(open + sub[1] + close)
	})
}

func (s *mathShield) restore(text string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		i, err := strconv.Atoi(sub[1])
		if err != nil || i >= len(s.spans) {
			return m
		}
		return s.spans[i]
	})
}

// ToPresentationDelimiters rewrites $...$, $$...$$ and \(...\) into \[...\].
// Spans already in \[...\] form are left exactly as they are.
func ToPresentationDelimiters(text string) string {
	if text == "" {
		return text
	}
	var s mathShield
	out := s.protect(displaySpanRe, text)
	out = s.rewrite(parenMathRe, out, `\[`, `\]`)
	out = s.rewrite(doubleDollarRe, out, `\[`, `\]`)
	out = replaceSingleDollar(out, func(body string) string {
		return s.token(`\[` + body + `\]`)
	})
	return s.restore(out)
}

// ToRemoteMarkup rewrites $$...$$ into \[...\] and $...$ into \(...\).
// Existing \(...\) and \[...\] spans are untouched.
func ToRemoteMarkup(text string) string {
	if text == "" {
		return text
	}
	var s mathShield
	out := s.protect(displaySpanRe, text)
	out = s.protect(inlineSpanRe, out)
	out = s.rewrite(doubleDollarRe, out, `\[`, `\]`)
	out = replaceSingleDollar(out, func(body string) string {
		return s.token(`\(` + body + `\)`)
	})
	return s.restore(out)
}

// UnescapeLiteralDollars turns \$ into $ and changes nothing else
func UnescapeLiteralDollars(text string) string {
	if text == "" {
		return text
	}
	return strings.ReplaceAll(text, `\$`, "$")
}

// Normalize applies the conversion for target
func Normalize(text string, target Target) string {
	switch target {
	case TargetAnki:
		return UnescapeLiteralDollars(ToRemoteMarkup(text))
	case TargetPreview:
		return UnescapeLiteralDollars(ToPresentationDelimiters(text))
	default:
		return UnescapeLiteralDollars(text)
	}
}

// replaceSingleDollar rewrites lone-dollar spans $body$ with wrap(body).
// A dollar touching another dollar, or escaped with a backslash, never
// opens or closes a span. The body is non-empty and never crosses a newline.
func replaceSingleDollar(text string, wrap func(body string) string) string {
	if !strings.Contains(text, "$") {
		return text
	}

	var sb strings.Builder
	last := 0
	for i := 0; i < len(text); i++ {
		if !isLoneDollar(text, i) {
			continue
		}
		j := i + 1
		for j < len(text) && text[j] != '$' && text[j] != '\n' {
			j++
		}
		if j >= len(text) || text[j] != '$' || j == i+1 || !isLoneDollar(text, j) {
			continue
		}
		sb.WriteString(text[last:i])
		sb.WriteString(wrap(text[i+1 : j]))
		last = j + 1
		i = j
	}
	if last == 0 {
		return text
	}
	sb.WriteString(text[last:])
	return sb.String()
}

func isLoneDollar(text string, i int) bool {
	if text[i] != '$' {
		return false
	}
	if i > 0 && (text[i-1] == '$' || text[i-1] == '\\') {
		return false
	}
	if i+1 < len(text) && text[i+1] == '$' {
		return false
	}
	return true
}
