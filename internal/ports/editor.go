package ports

import "os/exec"

// EditorOpener opens files in the user's terminal editor
type EditorOpener interface {
	// OpenFile opens path in $EDITOR, $VISUAL or a common editor and waits
	OpenFile(path string) error

	// Command returns the exec.Cmd OpenFile would run
	Command(path string) (*exec.Cmd, error)

	// EditText round-trips text through a temporary file in the editor
	EditText(initial string) (string, error)
}
