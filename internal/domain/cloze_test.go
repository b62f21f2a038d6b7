package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCompileCloze(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		markers []string
		want    string
		wantErr error
	}{
		{
			name:  "two deletions",
			input: "The capital of {{France}} is {{Paris}}.",
			want:  "The capital of {{c1::France}} is {{c2::Paris}}.",
		},
		{
			name:  "repeated payload gets a new ordinal",
			input: "{{a}} and {{a}} again",
			want:  "{{c1::a}} and {{c2::a}} again",
		},
		{
			name:  "already compiled is kept",
			input: "{{c1::x}} stays",
			want:  "{{c1::x}} stays",
		},
		{
			name:  "new deletions continue after existing ones",
			input: "{{c3::x}} and {{y}}",
			want:  "{{c3::x}} and {{c4::y}}",
		},
		{
			name:    "custom markers",
			input:   "[[H2O]] is [[water]]",
			markers: []string{"[[", "]]"},
			want:    "{{c1::H2O}} is {{c2::water}}",
		},
		{
			name:  "math payload",
			input: "Area is {{$\\pi r^2$}}",
			want:  "Area is {{c1::$\\pi r^2$}}",
		},
		{
			name:    "no markers",
			input:   "plain prose",
			wantErr: ErrNoClozeDeletions,
		},
		{
			name:    "empty payload is not a deletion",
			input:   "{{}} and {{  }}",
			wantErr: ErrNoClozeDeletions,
		},
		{
			name:    "unterminated marker",
			input:   "broken {{term",
			wantErr: ErrNoClozeDeletions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompileCloze(tt.input, tt.markers...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCompileCloze_OrdinalsFollowOccurrence(t *testing.T) {
	for n := 1; n <= 6; n++ {
		var parts []string
		for i := 0; i < n; i++ {
			parts = append(parts, fmt.Sprintf("{{term%d}}", i))
		}
		got, err := CompileCloze(strings.Join(parts, " "))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if c := CountClozeDeletions(got); c != n {
			t.Errorf("n=%d: expected %d deletions, got %d in %q", n, n, c, got)
		}
		for i := 0; i < n; i++ {
			want := fmt.Sprintf("{{c%d::term%d}}", i+1, i)
			if !strings.Contains(got, want) {
				t.Errorf("n=%d: expected %q in %q", n, want, got)
			}
		}
	}
}

func TestFindClozeMatches(t *testing.T) {
	matches := FindClozeMatches("x {{a}} y {{b}}")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Payload != "a" || matches[0].Ordinal != 1 || matches[0].Raw != "{{a}}" {
		t.Errorf("unexpected first match: %+v", matches[0])
	}
	if matches[1].Payload != "b" || matches[1].Ordinal != 2 || matches[1].Start != 10 {
		t.Errorf("unexpected second match: %+v", matches[1])
	}
}

func TestSplitCloze(t *testing.T) {
	segs := SplitCloze("The {{c1::mitochondria}} is the {{c2::powerhouse::organ role}} of the cell")
	want := []ClozeSegment{
		{Text: "The "},
		{Text: "mitochondria", Ordinal: 1},
		{Text: " is the "},
		{Text: "powerhouse", Ordinal: 2},
		{Text: " of the cell"},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, want[i], segs[i])
		}
	}

	if got := SplitCloze("plain"); len(got) != 1 || got[0].Ordinal != 0 {
		t.Errorf("expected one plain segment, got %+v", got)
	}
}
