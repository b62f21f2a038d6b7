package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Default cloze markers: {{term}}
const (
	DefaultClozeOpen  = "{{"
	DefaultClozeClose = "}}"
)

var compiledClozeRe = regexp.MustCompile(`\{\{c(\d+)::(.*?)\}\}`)

// ClozeMatch is one marker-delimited payload found in a text block
type ClozeMatch struct {
	Start   int // byte offset of the opening marker
	End     int // byte offset just past the closing marker
	Raw     string
	Payload string
	Ordinal int
}

// FindClozeMatches returns the uncompiled marker spans of text in order,
// numbered after any {{cN::...}} deletion already present
func FindClozeMatches(text string, markers ...string) []ClozeMatch {
	open, close := clozeMarkers(markers)
	re := markerPattern(open, close)

	compiled := compiledClozeRe.FindAllStringSubmatchIndex(text, -1)
	next := maxOrdinal(text, compiled) + 1

	var matches []ClozeMatch
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if overlapsAny(loc[0], loc[1], compiled) {
			continue
		}
		payload := text[loc[2]:loc[3]]
		if strings.TrimSpace(payload) == "" {
			continue
		}
		matches = append(matches, ClozeMatch{
			Start:   loc[0],
			End:     loc[1],
			Raw:     text[loc[0]:loc[1]],
			Payload: payload,
			Ordinal: next,
		})
		next++
	}
	return matches
}

// CompileCloze turns marker-delimited payloads into numbered deletions
// {{cN::payload}}. Each occurrence gets its own ordinal, even when the
// payload text repeats. Returns ErrNoClozeDeletions when the result holds
// no deletion at all.
func CompileCloze(text string, markers ...string) (string, error) {
	matches := FindClozeMatches(text, markers...)
	if len(matches) == 0 {
		if compiledClozeRe.MatchString(text) {
			return text, nil
		}
		return "", ErrNoClozeDeletions
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m.Start])
		fmt.Fprintf(&sb, "{{c%d::%s}}", m.Ordinal, m.Payload)
		last = m.End
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}

// CountClozeDeletions returns how many {{cN::...}} deletions text holds
func CountClozeDeletions(text string) int {
	return len(compiledClozeRe.FindAllStringIndex(text, -1))
}

// ClozeSegment is a run of cloze text, either plain or a hidden deletion
type ClozeSegment struct {
	Text    string
	Ordinal int // 0 for plain text
}

// SplitCloze splits compiled cloze text into plain runs and deletions.
// A deletion's hint ({{c1::answer::hint}}) is dropped.
func SplitCloze(text string) []ClozeSegment {
	var segs []ClozeSegment
	last := 0
	for _, loc := range compiledClozeRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, ClozeSegment{Text: text[last:loc[0]]})
		}
		n, _ := strconv.Atoi(text[loc[2]:loc[3]])
		answer, _, _ := strings.Cut(text[loc[4]:loc[5]], "::")
		segs = append(segs, ClozeSegment{Text: answer, Ordinal: n})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, ClozeSegment{Text: text[last:]})
	}
	return segs
}

func clozeMarkers(markers []string) (string, string) {
	if len(markers) >= 2 && markers[0] != "" && markers[1] != "" {
		return markers[0], markers[1]
	}
	return DefaultClozeOpen, DefaultClozeClose
}

func markerPattern(open, close string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(open) + `(.*?)` + regexp.QuoteMeta(close))
}

func maxOrdinal(text string, compiled [][]int) int {
	max := 0
	for _, loc := range compiled {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err == nil && n > max {
			max = n
		}
	}
	return max
}

func overlapsAny(start, end int, spans [][]int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}
