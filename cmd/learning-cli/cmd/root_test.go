package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"physics", []string{"physics"}},
		{" physics , exam,, ", []string{"physics", "exam"}},
	}
	for _, tt := range tests {
		if got := splitTags(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitTags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadInput(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("Q: from stdin\nA: yes"))

	got, err := readInput(cmd, nil)
	if err != nil {
		t.Fatalf("readInput() error = %v", err)
	}
	if got != "Q: from stdin\nA: yes" {
		t.Errorf("readInput() = %q", got)
	}

	path := filepath.Join(t.TempDir(), "cards.md")
	if err := os.WriteFile(path, []byte("Q: from file\nA: yes"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = readInput(cmd, []string{path})
	if err != nil {
		t.Fatalf("readInput() error = %v", err)
	}
	if got != "Q: from file\nA: yes" {
		t.Errorf("readInput() = %q", got)
	}

	if _, err := readInput(cmd, []string{filepath.Join(t.TempDir(), "missing.md")}); err == nil {
		t.Error("readInput() expected error for a missing file")
	}
}
