package obsidian

import (
	"errors"
	"testing"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

func TestNewOpener_VaultName(t *testing.T) {
	tests := []struct {
		name          string
		vaultPath     string
		vaultName     string
		wantVaultName string
	}{
		{
			name:          "derived from folder",
			vaultPath:     "/Users/test/Study",
			wantVaultName: "Study",
		},
		{
			name:          "trailing slash",
			vaultPath:     "/Users/test/My Notes/",
			wantVaultName: "My Notes",
		},
		{
			name:          "explicit name",
			vaultPath:     "/Users/test/vault",
			vaultName:     "Research",
			wantVaultName: "Research",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := NewOpener(tt.vaultPath, tt.vaultName)
			if opener.vaultName != tt.wantVaultName {
				t.Errorf("vaultName = %q, want %q", opener.vaultName, tt.wantVaultName)
			}
		})
	}
}

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name      string
		vaultPath string
		filePath  string
		wantURI   string
		wantErr   bool
	}{
		{
			name:      "top level note",
			vaultPath: "/Users/test/Study",
			filePath:  "/Users/test/Study/Eigenvalues.md",
			wantURI:   "obsidian://open?vault=Study&file=Eigenvalues",
		},
		{
			name:      "nested note with spaces",
			vaultPath: "/Users/test/My Notes",
			filePath:  "/Users/test/My Notes/Linear Algebra/Spectral theorem.md",
			wantURI:   "obsidian://open?vault=My%20Notes&file=Linear%20Algebra%2FSpectral%20theorem",
		},
		{
			name:      "outside the vault",
			vaultPath: "/Users/test/Study",
			filePath:  "/Users/test/Other/note.md",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := NewOpener(tt.vaultPath, "").BuildURI(tt.filePath)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInputInvalid) {
					t.Errorf("expected input invalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if uri != tt.wantURI {
				t.Errorf("uri = %q, want %q", uri, tt.wantURI)
			}
		})
	}
}

func TestOpenFile(t *testing.T) {
	opener := NewOpener("/Users/test/Study", "")
	var launched string
	opener.launch = func(uri string) error {
		launched = uri
		return nil
	}

	if err := opener.OpenFile("/Users/test/Study/Eigenvalues.md"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if launched != "obsidian://open?vault=Study&file=Eigenvalues" {
		t.Errorf("launched %q", launched)
	}

	launched = ""
	if err := opener.OpenFile("/tmp/elsewhere.md"); err == nil {
		t.Error("expected error for file outside the vault")
	}
	if launched != "" {
		t.Errorf("nothing should be launched, got %q", launched)
	}
}
