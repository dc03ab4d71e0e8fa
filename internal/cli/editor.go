package cli

import (
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoEditor is returned by EditInEditor when neither $VISUAL nor $EDITOR
// is set.
var ErrNoEditor = errors.New("EDITOR not set. Set it or pass the fields as flags instead of -i")

// EditInEditor writes content to a temporary file, opens it in the user's
// editor and returns what was saved. suffix names the file type, e.g.
// ".yaml", so editors pick the right highlighting.
func EditInEditor(content []byte, suffix string) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, ErrNoEditor
	}

	tmp, err := os.CreateTemp("", "pcparts-*"+suffix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp file")
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close temp file")
	}

	if err := runEditor(editor, path); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read edited file")
	}
	return out, nil
}

// getEditor prefers $VISUAL over $EDITOR.
func getEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// runEditor runs editor on path. editor may carry arguments, as in
// "code --wait".
func runEditor(editor, path string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return errors.New("empty editor command")
	}

	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errors.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return errors.Wrap(err, "failed to run editor")
	}
	return nil
}
