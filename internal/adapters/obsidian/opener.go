// Package obsidian links vault notes to the Obsidian app through obsidian:// URIs
package obsidian

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// Opener implements ports.ObsidianOpener
type Opener struct {
	vaultPath string
	vaultName string
	// launch hands a URI to the desktop, swapped out in tests
	launch func(uri string) error
}

var _ ports.ObsidianOpener = (*Opener)(nil)

// NewOpener creates an opener for the vault at vaultPath. Obsidian names a
// vault after its folder, so the folder name is used unless vaultName is set.
func NewOpener(vaultPath, vaultName string) *Opener {
	vaultPath = filepath.Clean(vaultPath)
	if vaultName == "" {
		vaultName = filepath.Base(vaultPath)
	}
	return &Opener{
		vaultPath: vaultPath,
		vaultName: vaultName,
		launch:    launchURI,
	}
}

// OpenFile opens a note in Obsidian
func (o *Opener) OpenFile(filePath string) error {
	uri, err := o.BuildURI(filePath)
	if err != nil {
		return err
	}
	if err := o.launch(uri); err != nil {
		return fmt.Errorf("failed to open %s: %w", uri, err)
	}
	return nil
}

// BuildURI returns obsidian://open?vault=<name>&file=<path> for a file inside the vault
func (o *Opener) BuildURI(filePath string) (string, error) {
	rel, err := filepath.Rel(o.vaultPath, filepath.Clean(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.NewError(domain.KindInputInvalid, "build uri", fmt.Sprintf("file is outside the vault: %s", filePath))
	}

	// Obsidian resolves notes without their extension
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".md")

	return fmt.Sprintf("obsidian://open?vault=%s&file=%s",
		url.PathEscape(o.vaultName),
		url.PathEscape(rel),
	), nil
}

func launchURI(uri string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "linux":
		cmd = exec.Command("xdg-open", uri)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", uri)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return cmd.Run()
}
