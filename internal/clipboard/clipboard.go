// Package clipboard reads and writes the system clipboard through the
// platform's command-line tools.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard tool is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// tool is one clipboard program invocation.
type tool struct {
	name string
	args []string
}

// copyTools and pasteTools list the programs to try per GOOS, in order.
var (
	copyTools = map[string][]tool{
		"darwin": {{name: "pbcopy"}},
		"linux": {
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		},
	}
	pasteTools = map[string][]tool{
		"darwin": {{name: "pbpaste"}},
		"linux": {
			{name: "wl-paste", args: []string{"--no-newline"}},
			{name: "xclip", args: []string{"-selection", "clipboard", "-o"}},
			{name: "xsel", args: []string{"--clipboard", "--output"}},
		},
	}
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// command returns the first installed program for goos in the requested
// direction, with its arguments.
func command(goos string, paste bool) (string, []string, error) {
	candidates := copyTools[goos]
	if paste {
		candidates = pasteTools[goos]
	}
	for _, t := range candidates {
		if _, err := lookPath(t.name); err == nil {
			return t.name, t.args, nil
		}
	}
	return "", nil, ErrClipboardUnavailable
}

// Paste returns the clipboard text, trimmed.
func Paste() (string, error) {
	name, args, err := command(runtime.GOOS, true)
	if err != nil {
		return "", err
	}
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Copy copies the given text to the system clipboard.
func Copy(text string) error {
	name, args, err := command(runtime.GOOS, false)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
